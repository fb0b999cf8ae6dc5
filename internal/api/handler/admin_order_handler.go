package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/service"
	"github.com/d60-Lab/agexport-console/pkg/response"
)

// CreateAdminOrder 后台录单；总额由服务端按定价不变式重算
// @Summary 创建后台订单
// @Tags 订单管理
// @Accept json
// @Produce json
// @Param request body service.AdminOrderInput true "订单信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/ordermanagement [post]
func (h *Handler) CreateAdminOrder(c *gin.Context) {
	var in service.AdminOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.adminSvc.Create(c.Request.Context(), &in)
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

// ListAdminOrders 查询后台订单列表
// @Summary 查询后台订单
// @Tags 订单管理
// @Success 200 {object} response.Response
// @Router /api/v1/ordermanagement [get]
func (h *Handler) ListAdminOrders(c *gin.Context) {
	orders, err := h.adminSvc.List(c.Request.Context(), 0)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, orders)
}

type updateAdminOrderRequest struct {
	service.AdminOrderInput
	Status string `json:"status"`
}

// UpdateAdminOrder 更新后台订单；带 status 时走状态机，否则更新字段并重算总额
// @Summary 更新后台订单
// @Tags 订单管理
// @Accept json
// @Produce json
// @Param request body updateAdminOrderRequest true "订单信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/ordermanagement [put]
func (h *Handler) UpdateAdminOrder(c *gin.Context) {
	var req updateAdminOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.ID == "" {
		response.BadRequest(c, "id: required")
		return
	}

	if req.Status != "" {
		target, ok := model.ParseStatus(req.Status)
		if !ok {
			response.BadRequest(c, "invalid status: "+req.Status)
			return
		}
		order, err := h.adminSvc.SetStatus(c.Request.Context(), req.ID, target)
		if err != nil {
			h.renderStatusError(c, err)
			return
		}
		response.Success(c, order)
		return
	}

	order, err := h.adminSvc.Update(c.Request.Context(), &req.AdminOrderInput)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			response.BadRequest(c, ve.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, "order not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, order)
}

type deleteAdminOrderRequest struct {
	ID string `json:"id" binding:"required"`
}

// DeleteAdminOrder 删除后台订单
// @Summary 删除后台订单
// @Tags 订单管理
// @Param request body deleteAdminOrderRequest true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/ordermanagement [delete]
func (h *Handler) DeleteAdminOrder(c *gin.Context) {
	var req deleteAdminOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.adminSvc.Delete(c.Request.Context(), req.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
