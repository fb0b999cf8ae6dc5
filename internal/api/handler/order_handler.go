package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/service"
	"github.com/d60-Lab/agexport-console/pkg/response"
)

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder 创建自助订单
// @Summary 创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body service.CreateOrderInput true "订单信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.orderSvc.Create(c.Request.Context(), &in)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			response.BadRequest(c, ve.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 查询订单列表；?id= 时返回单条
// @Summary 查询订单
// @Tags 订单
// @Param id query string false "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		h.getOrder(c, id)
		return
	}
	views, err := h.orderSvc.List(c.Request.Context(), 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, views)
}

// GetOrder 查询单个订单
// @Summary 查询单个订单
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	h.getOrder(c, c.Param("id"))
}

func (h *Handler) getOrder(c *gin.Context, id string) {
	view, err := h.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateOrderStatus 更新订单状态；终态订单返回 409
// @Summary 更新订单状态
// @Tags 订单
// @Param id path string true "订单ID"
// @Param request body setStatusRequest true "目标状态"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/orders/{id} [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	target, ok := model.ParseStatus(req.Status)
	if !ok {
		response.BadRequest(c, "invalid status: "+req.Status)
		return
	}
	order, err := h.orderSvc.SetStatus(c.Request.Context(), c.Param("id"), target)
	if err != nil {
		h.renderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// renderStatusError 状态流转错误到 HTTP 码的统一映射
func (h *Handler) renderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, service.ErrStateLocked):
		// 与普通失败区分开，前端展示"status locked"
		response.Conflict(c, "status locked")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, "invalid status transition")
	default:
		response.InternalError(c, err)
	}
}

// DeleteOrder 删除订单（无终态保护）
// @Summary 删除订单
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id} [delete]
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orderSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListOrderEvents 查询订单状态流转记录
// @Summary 查询订单状态审计
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/orders/{id}/events [get]
func (h *Handler) ListOrderEvents(c *gin.Context) {
	events, err := h.orderSvc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, events)
}
