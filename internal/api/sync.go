package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minikel/valido-pwa/internal/importer"
)

// TriggerSync 手动触发一次目录同步
// POST /api/sync
// 与定时同步共用同一把运行锁，正在运行时返回 409
func (h *Handler) TriggerSync(c *gin.Context) {
	n, err := h.syncJob.Run()
	if err != nil {
		if errors.Is(err, importer.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"message": "同步正在进行中"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "同步失败", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "同步完成", "importedRows": n})
}

// StatusResponse 系统状态响应
type StatusResponse struct {
	CatalogLines  int `json:"catalogLines"`  // 目录行数
	CatalogOrders int `json:"catalogOrders"` // 目录订单数
	Validations   int `json:"validations"`   // 验证记录总数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	lines, err := h.store.CountCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	orders, err := h.store.CountCatalogOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	validations, err := h.store.CountValidations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		CatalogLines:  lines,
		CatalogOrders: orders,
		Validations:   validations,
	})
}
