package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/agexport-console/pkg/response"
)

// DashboardStats 即时 KPI；每次请求重读两个订单集合
// @Summary 看板 KPI
// @Tags 看板
// @Success 200 {object} response.Response{data=service.DashboardStats}
// @Router /api/v1/dashboard/stats [get]
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.revenueSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// DashboardCharts 7 日趋势（本地时区自然日，零填充）
// @Summary 看板趋势图
// @Tags 看板
// @Success 200 {object} response.Response{data=[]service.TrendPoint}
// @Router /api/v1/dashboard/charts [get]
func (h *Handler) DashboardCharts(c *gin.Context) {
	series, err := h.revenueSvc.ChartSeries(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, series)
}
