package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minikel/valido-pwa/internal/recorder"
	"github.com/minikel/valido-pwa/internal/store"
)

// ValidateRequest 验证提交请求
type ValidateRequest struct {
	OrderCode    string `json:"orderCode"`
	OperatorName string `json:"operatorName"`
}

// Validate 提交一次验证
// POST /api/validate
// 关系库写入成功即返回 201，审计日志为尽力而为不影响结果
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "无效的请求体"})
		return
	}

	rec, err := h.recorder.Record(req.OrderCode, req.OperatorName)
	if err != nil {
		if recorder.IsInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "订单号和操作员姓名不能为空"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "验证已记录",
		"record":  rec,
	})
}

// ListValidations 查询验证记录
// GET /api/validations?dateRange=&orderCode=&operatorName=
func (h *Handler) ListValidations(c *gin.Context) {
	opts := store.ValidationQueryOptions{
		DateRange:    strings.TrimSpace(c.Query("dateRange")),
		OrderCode:    strings.TrimSpace(c.Query("orderCode")),
		OperatorName: strings.TrimSpace(c.Query("operatorName")),
	}

	records, err := h.store.ListValidations(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	c.JSON(http.StatusOK, records)
}
