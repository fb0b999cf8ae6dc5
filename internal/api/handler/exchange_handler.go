package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/agexport-console/pkg/response"
)

// ExchangeRate 当前汇率快照；上游失败时降级为兜底汇率，永不报错
// @Summary 查询汇率
// @Tags 汇率
// @Success 200 {object} response.Response{data=exchange.Snapshot}
// @Router /api/v1/exchange-rate [get]
func (h *Handler) ExchangeRate(c *gin.Context) {
	response.Success(c, h.rates.CurrentSnapshot(c.Request.Context()))
}
