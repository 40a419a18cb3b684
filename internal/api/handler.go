package api

import (
	"github.com/gin-gonic/gin"

	"github.com/minikel/valido-pwa/internal/importer"
	"github.com/minikel/valido-pwa/internal/recorder"
	"github.com/minikel/valido-pwa/internal/store"
)

// Handler API 处理器
type Handler struct {
	store    *store.Store
	recorder *recorder.Recorder
	syncJob  *importer.SyncJob
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, rec *recorder.Recorder, syncJob *importer.SyncJob) *Handler {
	return &Handler{
		store:    st,
		recorder: rec,
		syncJob:  syncJob,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 订单查询
	router.GET("/search/:orderCode", h.SearchOrder)

	// 验证记录
	router.POST("/validate", h.Validate)
	router.GET("/validations", h.ListValidations)

	// 目录同步
	router.POST("/sync", h.TriggerSync)

	// 系统状态
	router.GET("/status", h.GetStatus)
}
