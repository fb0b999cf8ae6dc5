package handler

import (
	"github.com/d60-Lab/agexport-console/internal/exchange"
	"github.com/d60-Lab/agexport-console/internal/service"
)

// Handler 聚合所有 HTTP 处理器依赖
type Handler struct {
	orderSvc   service.OrderService
	adminSvc   service.AdminOrderService
	revenueSvc service.RevenueService
	rates      *exchange.RateCache
}

func New(orderSvc service.OrderService, adminSvc service.AdminOrderService, revenueSvc service.RevenueService, rates *exchange.RateCache) *Handler {
	return &Handler{orderSvc: orderSvc, adminSvc: adminSvc, revenueSvc: revenueSvc, rates: rates}
}
