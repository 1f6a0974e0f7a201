// Package response 统一 HTTP 响应体的格式。
package response

import (
	"net/http"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// Success 返回 {"code","message","data"} 格式的成功响应。
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": "success",
		"data":    data,
	})
}

// Error 把任意错误映射为带错误码的响应。内部错误只在 debug 模式下附带原因。
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.Status()

	body := gin.H{
		"code":    status,
		"message": appErr.Message,
		"error":   appErr.Code,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}

	if status >= http.StatusInternalServerError && appErr.Kind == apperr.KindInternal {
		log.Error("request failed with internal error", err)
		if gin.Mode() == gin.DebugMode {
			body["details"] = gin.H{"cause": err.Error()}
		}
	}
	c.AbortWithStatusJSON(status, body)
}
