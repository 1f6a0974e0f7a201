// Package model 包含了应用的数据模型定义。
package model

import "time"

// MessageType 表示消息的发送方类型。
type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeSystem    MessageType = "system"
)

// Priority 表示消息的优先级。
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// 分页参数的默认值与上限。
const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// ChatMessage 代表存储在进程内存中的单条聊天消息记录。
// ID 和 CreatedAt 创建后不再改变，UpdatedAt 在每次修改时刷新。
type ChatMessage struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	SessionID   string      `json:"sessionId"`
	UserID      string      `json:"userId,omitempty"`
	MessageType MessageType `json:"messageType"`
	Priority    Priority    `json:"priority"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CreateChatMessage 是创建消息的请求体，未指定的枚举字段由仓库填充默认值。
type CreateChatMessage struct {
	Content     string      `json:"content" validate:"required,max=2000"`
	SessionID   string      `json:"sessionId" validate:"required,max=100"`
	UserID      string      `json:"userId" validate:"max=100"`
	MessageType MessageType `json:"messageType" validate:"omitempty,oneof=user assistant system"`
	Priority    Priority    `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateChatMessage 是部分更新的请求体。nil 字段表示“未提供”，保持原值。
type UpdateChatMessage struct {
	Content     *string      `json:"content" validate:"omitnil,min=1,max=2000"`
	SessionID   *string      `json:"sessionId" validate:"omitnil,min=1,max=100"`
	UserID      *string      `json:"userId" validate:"omitnil,max=100"`
	MessageType *MessageType `json:"messageType" validate:"omitnil,oneof=user assistant system"`
	Priority    *Priority    `json:"priority" validate:"omitnil,oneof=low medium high"`
}

// IsEmpty 判断更新请求是否没有携带任何可识别字段。
func (u UpdateChatMessage) IsEmpty() bool {
	return u.Content == nil && u.SessionID == nil && u.UserID == nil &&
		u.MessageType == nil && u.Priority == nil
}

// ChatMessageFilter 是列表查询条件，各字段之间为 AND 关系，空值不做约束。
// Limit、Offset 为 nil 时分别取 DefaultLimit 和 0。
type ChatMessageFilter struct {
	SessionID   string
	UserID      string
	MessageType MessageType
	Priority    Priority
	Limit       *int
	Offset      *int
}

// Matches 判断一条消息是否满足所有已指定的等值条件。
func (f ChatMessageFilter) Matches(m ChatMessage) bool {
	if f.SessionID != "" && m.SessionID != f.SessionID {
		return false
	}
	if f.UserID != "" && m.UserID != f.UserID {
		return false
	}
	if f.MessageType != "" && m.MessageType != f.MessageType {
		return false
	}
	if f.Priority != "" && m.Priority != f.Priority {
		return false
	}
	return true
}

// Window 返回生效的 limit 和 offset。
func (f ChatMessageFilter) Window() (limit, offset int) {
	limit, offset = DefaultLimit, 0
	if f.Limit != nil {
		limit = *f.Limit
	}
	if f.Offset != nil {
		offset = *f.Offset
	}
	return limit, offset
}

// ChatMessagePage 是分页查询结果，Total 为分页前的匹配总数。
type ChatMessagePage struct {
	Records []ChatMessage `json:"records"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}
