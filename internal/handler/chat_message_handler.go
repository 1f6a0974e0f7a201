// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/internal/model"
	"chatmsg-go/internal/response"
	"chatmsg-go/internal/service"
	"chatmsg-go/internal/validation"
	"chatmsg-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatMessageHandler 处理聊天消息的 CRUD 请求。
type ChatMessageHandler struct {
	service service.ChatMessageService
}

// NewChatMessageHandler 创建一个新的 ChatMessageHandler。
func NewChatMessageHandler(service service.ChatMessageService) *ChatMessageHandler {
	return &ChatMessageHandler{service: service}
}

// Register 把路由挂到给定的路由组上。
func (h *ChatMessageHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/read", h.MarkAsRead)
}

func invalidBody(err error) error {
	msg := "invalid JSON body"
	log.Warnf("ChatMessageHandler: %s, error: %v", msg, err)
	return apperr.Validation(msg, map[string]string{"body": err.Error()})
}

// Create 处理创建消息的请求。
func (h *ChatMessageHandler) Create(c *gin.Context) {
	var req model.CreateChatMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	if err := validation.ValidateCreate(req); err != nil {
		response.Error(c, err)
		return
	}

	msg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	log.Infof("Chat message '%s' created in session '%s'", msg.ID, msg.SessionID)
	response.Success(c, http.StatusCreated, msg)
}

// List 处理按条件分页查询的请求。
func (h *ChatMessageHandler) List(c *gin.Context) {
	filter, err := validation.ParseFilter(c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get 处理按 ID 查询单条消息的请求。
func (h *ChatMessageHandler) Get(c *gin.Context) {
	msg, err := h.service.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}

// Update 处理部分更新请求，只修改请求体中出现的字段。
func (h *ChatMessageHandler) Update(c *gin.Context) {
	var req model.UpdateChatMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	if err := validation.ValidateUpdate(req); err != nil {
		response.Error(c, err)
		return
	}

	msg, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}

// Delete 处理删除请求。
func (h *ChatMessageHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	log.Infof("Chat message '%s' deleted", id)
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// MarkAsRead 处理标记已读请求。目前只刷新 updatedAt。
func (h *ChatMessageHandler) MarkAsRead(c *gin.Context) {
	msg, err := h.service.MarkAsRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}
