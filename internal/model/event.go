package model

import "time"

// ChatMessageEventType 标识一次记录变更的类型。
type ChatMessageEventType string

const (
	EventCreated ChatMessageEventType = "created"
	EventUpdated ChatMessageEventType = "updated"
	EventDeleted ChatMessageEventType = "deleted"
	EventRead    ChatMessageEventType = "read"
)

// ChatMessageEvent 是记录变更后对外发布的事件。删除事件不携带 Record。
type ChatMessageEvent struct {
	Type       ChatMessageEventType `json:"type"`
	MessageID  string               `json:"messageId"`
	SessionID  string               `json:"sessionId,omitempty"`
	Record     *ChatMessage         `json:"record,omitempty"`
	OccurredAt time.Time            `json:"occurredAt"`
}
