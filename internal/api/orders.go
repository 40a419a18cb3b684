package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchOrder 按订单号查询目录行
// GET /api/search/:orderCode
// 订单不存在或没有关联产品时返回 404（核心查询层视为正常空结果）
func (h *Handler) SearchOrder(c *gin.Context) {
	orderCode := strings.TrimSpace(c.Param("orderCode"))
	if orderCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "订单号不能为空"})
		return
	}

	lines, err := h.store.LinesByOrder(orderCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	if len(lines) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "订单不存在或没有关联产品"})
		return
	}

	c.JSON(http.StatusOK, lines)
}
