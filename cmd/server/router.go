package main

import (
	"chatmsg-go/internal/config"
	"chatmsg-go/internal/handler"
	"chatmsg-go/internal/middleware"
	"chatmsg-go/internal/service"
	"chatmsg-go/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// newRouter 创建路由引擎并注册所有路由。
func newRouter(cfg config.ServerConfig, svc service.ChatMessageService, m *metrics.Metrics, storeSize func() int) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(m),
		gin.Recovery(),
		middleware.RateLimit(cfg.RateLimit),
	)

	r.GET("/healthz", handler.NewHealthHandler(storeSize).Healthz)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		handler.NewChatMessageHandler(svc).Register(apiV1.Group("/chat-messages"))
	}
	return r
}
