// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chatmsg-go/internal/config"
	"chatmsg-go/internal/model"
	"chatmsg-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// MessageWriter 抽象了 kafka.Writer 的写入能力，便于测试替换。
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer 把聊天消息变更事件写入 Kafka。
type Producer struct {
	writer MessageWriter
}

// NewProducer 根据配置创建一个 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return NewProducerWithWriter(w)
}

// NewProducerWithWriter 使用给定的 writer 创建生产者。
func NewProducerWithWriter(w MessageWriter) *Producer {
	return &Producer{writer: w}
}

// Publish 发送一个事件。以 sessionId 作为 key，同一会话的事件落在同一分区，保持顺序。
func (p *Producer) Publish(ctx context.Context, event model.ChatMessageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}
	return nil
}

// Close 关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}
