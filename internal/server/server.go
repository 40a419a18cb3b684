package server

import (
	"github.com/gin-gonic/gin"

	"github.com/minikel/valido-pwa/internal/api"
	"github.com/minikel/valido-pwa/internal/metrics"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	handler *api.Handler
}

// NewServer 创建服务器
// 依赖由调用方构造注入，服务器只负责路由与中间件
func NewServer(handler *api.Handler, reg *metrics.Registry, devMode bool) *Server {
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.Default(),
		handler: handler,
	}

	s.setupRoutes(reg)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(reg *metrics.Registry) {
	// CORS：前端独立部署
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(apiGroup)
	}

	// 指标
	s.router.GET("/metrics", gin.WrapH(reg.Handler()))
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router 获取路由（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}
