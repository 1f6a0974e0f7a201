package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler 提供存活检查。
type HealthHandler struct {
	size func() int
}

// NewHealthHandler 创建 HealthHandler，size 返回当前记录数。
func NewHealthHandler(size func() int) *HealthHandler {
	return &HealthHandler{size: size}
}

// Healthz 返回服务状态与当前记录数。
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": h.size(),
	})
}
