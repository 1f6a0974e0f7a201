// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"sync"
	"time"

	"chatmsg-go/internal/model"
	"chatmsg-go/pkg/store"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChatMessageRepository 定义了聊天消息记录的持久化操作。
// 记录不存在时通过 bool 返回值表达，而不是错误。
type ChatMessageRepository interface {
	Create(ctx context.Context, data model.CreateChatMessage) model.ChatMessage
	FindByID(ctx context.Context, id string) (model.ChatMessage, bool)
	FindAll(ctx context.Context, filter model.ChatMessageFilter) model.ChatMessagePage
	Update(ctx context.Context, id string, data model.UpdateChatMessage) (model.ChatMessage, bool)
	Delete(ctx context.Context, id string) bool
	Count(ctx context.Context, filter model.ChatMessageFilter) int
}

// Option 用于定制 memoryChatMessageRepository。
type Option func(*memoryChatMessageRepository)

// WithClock 替换获取当前时间的函数，主要用于测试。
func WithClock(now func() time.Time) Option {
	return func(r *memoryChatMessageRepository) { r.now = now }
}

// WithIDGenerator 替换记录 ID 的生成函数。
func WithIDGenerator(newID func() string) Option {
	return func(r *memoryChatMessageRepository) { r.newID = newID }
}

type memoryChatMessageRepository struct {
	// mu 让 Update 的读-改-写与 Delete 互斥，避免并发删除后记录被写回
	mu    sync.Mutex
	store store.KeyedStore[model.ChatMessage]
	now   func() time.Time
	newID func() string
}

// NewChatMessageRepository 基于给定的 KeyedStore 创建一个 ChatMessageRepository。
func NewChatMessageRepository(s store.KeyedStore[model.ChatMessage], opts ...Option) ChatMessageRepository {
	r := &memoryChatMessageRepository{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create 生成 ID、填充默认值并写入存储。输入已在边界层校验过。
func (r *memoryChatMessageRepository) Create(_ context.Context, data model.CreateChatMessage) model.ChatMessage {
	now := r.now()
	msg := model.ChatMessage{
		ID:          r.newID(),
		Content:     data.Content,
		SessionID:   data.SessionID,
		UserID:      data.UserID,
		MessageType: lo.Ternary(data.MessageType == "", model.MessageTypeUser, data.MessageType),
		Priority:    lo.Ternary(data.Priority == "", model.PriorityMedium, data.Priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.store.Set(msg.ID, msg)
	return msg
}

// FindByID 直接按 ID 查找。
func (r *memoryChatMessageRepository) FindByID(_ context.Context, id string) (model.ChatMessage, bool) {
	return r.store.Get(id)
}

// FindAll 全量扫描后按条件过滤，再截取 [offset, offset+limit) 窗口。
// Total 是分页之前的匹配数量。
func (r *memoryChatMessageRepository) FindAll(_ context.Context, filter model.ChatMessageFilter) model.ChatMessagePage {
	matched := r.match(filter)
	limit, offset := filter.Window()

	records := lo.Subset(matched, max(offset, 0), uint(max(limit, 0)))
	if records == nil {
		records = []model.ChatMessage{}
	}
	return model.ChatMessagePage{
		Records: records,
		Total:   len(matched),
		Limit:   limit,
		Offset:  offset,
	}
}

// Update 只合并提供了的字段，并刷新 UpdatedAt。空的更新同样会刷新时间戳。
func (r *memoryChatMessageRepository) Update(_ context.Context, id string, data model.UpdateChatMessage) (model.ChatMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.store.Get(id)
	if !ok {
		return model.ChatMessage{}, false
	}

	if data.Content != nil {
		msg.Content = *data.Content
	}
	if data.SessionID != nil {
		msg.SessionID = *data.SessionID
	}
	if data.UserID != nil {
		msg.UserID = *data.UserID
	}
	if data.MessageType != nil {
		msg.MessageType = *data.MessageType
	}
	if data.Priority != nil {
		msg.Priority = *data.Priority
	}

	// 时钟精度不足时也保证 UpdatedAt 严格递增
	now := r.now()
	if !now.After(msg.UpdatedAt) {
		now = msg.UpdatedAt.Add(time.Nanosecond)
	}
	msg.UpdatedAt = now

	r.store.Set(id, msg)
	return msg, true
}

// Delete 删除记录，返回是否真的删除了。
func (r *memoryChatMessageRepository) Delete(_ context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(id)
}

// Count 返回满足条件的记录数，忽略分页参数。
func (r *memoryChatMessageRepository) Count(_ context.Context, filter model.ChatMessageFilter) int {
	return len(r.match(filter))
}

func (r *memoryChatMessageRepository) match(filter model.ChatMessageFilter) []model.ChatMessage {
	return lo.Filter(r.store.Values(), func(m model.ChatMessage, _ int) bool {
		return filter.Matches(m)
	})
}
