package middleware

import (
	"strconv"
	"time"

	"chatmsg-go/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 记录每个请求的次数与耗时。route 标签使用路由模板，避免 ID 造成标签膨胀。
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
