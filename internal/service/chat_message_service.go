// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"sync"
	"time"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/internal/model"
	"chatmsg-go/internal/repository"
	"chatmsg-go/pkg/log"
)

const resourceName = "chat message"

// EventPublisher 负责把记录变更事件发送到外部系统。
type EventPublisher interface {
	Publish(ctx context.Context, event model.ChatMessageEvent) error
}

// NopPublisher 丢弃所有事件。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.ChatMessageEvent) error { return nil }

// ChatMessageService 定义了聊天消息的业务操作。
// 记录不存在时统一返回 apperr 的 NotFound 错误。
type ChatMessageService interface {
	FindAll(ctx context.Context, filter model.ChatMessageFilter) (model.ChatMessagePage, error)
	FindByID(ctx context.Context, id string) (model.ChatMessage, error)
	Create(ctx context.Context, data model.CreateChatMessage) (model.ChatMessage, error)
	Update(ctx context.Context, id string, data model.UpdateChatMessage) (model.ChatMessage, error)
	Delete(ctx context.Context, id string) error
	MarkAsRead(ctx context.Context, id string) (model.ChatMessage, error)
}

type chatMessageService struct {
	// createMu 保证容量检查与写入之间不会被其他创建请求插入
	createMu   sync.Mutex
	repo       repository.ChatMessageRepository
	publisher  EventPublisher
	maxRecords int
}

// NewChatMessageService 创建一个新的 ChatMessageService。
// maxRecords 为 0 表示不限制记录数；publisher 为 nil 时不发布事件。
func NewChatMessageService(repo repository.ChatMessageRepository, publisher EventPublisher, maxRecords int) ChatMessageService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &chatMessageService{repo: repo, publisher: publisher, maxRecords: maxRecords}
}

// FindAll 直接透传给仓库。
func (s *chatMessageService) FindAll(ctx context.Context, filter model.ChatMessageFilter) (model.ChatMessagePage, error) {
	return s.repo.FindAll(ctx, filter), nil
}

// FindByID 查找单条消息。
func (s *chatMessageService) FindByID(ctx context.Context, id string) (model.ChatMessage, error) {
	if id == "" {
		return model.ChatMessage{}, apperr.NotFound(resourceName, id)
	}
	msg, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return model.ChatMessage{}, apperr.NotFound(resourceName, id)
	}
	return msg, nil
}

// Create 创建消息。输入已经过校验，这里只检查容量上限。
func (s *chatMessageService) Create(ctx context.Context, data model.CreateChatMessage) (model.ChatMessage, error) {
	s.createMu.Lock()
	if s.maxRecords > 0 && s.repo.Count(ctx, model.ChatMessageFilter{}) >= s.maxRecords {
		log.Warnf("[ChatMessageService] store is full, capacity=%d", s.maxRecords)
		s.createMu.Unlock()
		return model.ChatMessage{}, apperr.StoreFull(s.maxRecords)
	}
	msg := s.repo.Create(ctx, data)
	s.createMu.Unlock()

	s.publish(ctx, model.EventCreated, msg.ID, &msg)
	return msg, nil
}

// Update 对已有消息做部分更新。
func (s *chatMessageService) Update(ctx context.Context, id string, data model.UpdateChatMessage) (model.ChatMessage, error) {
	msg, ok := s.repo.Update(ctx, id, data)
	if !ok {
		return model.ChatMessage{}, apperr.NotFound(resourceName, id)
	}
	s.publish(ctx, model.EventUpdated, msg.ID, &msg)
	return msg, nil
}

// Delete 删除消息。
func (s *chatMessageService) Delete(ctx context.Context, id string) error {
	existing, found := s.repo.FindByID(ctx, id)
	if !s.repo.Delete(ctx, id) {
		return apperr.NotFound(resourceName, id)
	}
	event := model.ChatMessageEvent{Type: model.EventDeleted, MessageID: id, OccurredAt: time.Now().UTC()}
	if found {
		event.SessionID = existing.SessionID
	}
	s.send(ctx, event)
	return nil
}

// MarkAsRead 只刷新 UpdatedAt，不修改任何内容字段。
func (s *chatMessageService) MarkAsRead(ctx context.Context, id string) (model.ChatMessage, error) {
	if _, ok := s.repo.FindByID(ctx, id); !ok {
		return model.ChatMessage{}, apperr.NotFound(resourceName, id)
	}
	msg, ok := s.repo.Update(ctx, id, model.UpdateChatMessage{})
	if !ok {
		// 查找与更新之间被并发删除
		return model.ChatMessage{}, apperr.NotFound(resourceName, id)
	}
	s.publish(ctx, model.EventRead, msg.ID, &msg)
	return msg, nil
}

func (s *chatMessageService) publish(ctx context.Context, typ model.ChatMessageEventType, id string, msg *model.ChatMessage) {
	s.send(ctx, model.ChatMessageEvent{
		Type:       typ,
		MessageID:  id,
		SessionID:  msg.SessionID,
		Record:     msg,
		OccurredAt: msg.UpdatedAt,
	})
}

// send 尽力发布事件，失败只记录日志，不回滚已完成的修改。
func (s *chatMessageService) send(ctx context.Context, event model.ChatMessageEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warnw("[ChatMessageService] failed to publish event",
			"type", event.Type,
			"messageId", event.MessageID,
			"error", err,
		)
	}
}
