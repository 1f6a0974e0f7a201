// Package pubsub 通过 Redis Pub/Sub 广播聊天消息变更事件。
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"chatmsg-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// Publisher 是 redis.Client 中 Publish 能力的子集。
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher 把事件以 JSON 形式发布到固定频道。
type RedisPublisher struct {
	client  Publisher
	channel string
}

// NewRedisPublisher 创建一个 RedisPublisher。
func NewRedisPublisher(client Publisher, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish 发布一个事件。
func (p *RedisPublisher) Publish(ctx context.Context, event model.ChatMessageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis channel %s: %w", p.channel, err)
	}
	return nil
}
