// Package mq 提供聊天事件的发布与订阅
// 事件供两类消费方使用：进程内 WebSocket 网关（实时推送）
// 与外部通知服务（邮件/推送，消费 Kafka 主题）
package mq

import (
	"context"
	"time"

	"go.uber.org/zap"

	"project_chat_server/internal/config"
)

// 事件类型
const (
	EventMessageSent = "message.sent"
	EventMemberAdded = "member.added"
)

// ChatEvent 聊天事件
// recipients 为本次事件的目标用户（不含触发者），
// muted 单列出其中处于免打扰中的用户，通知服务据此跳过推送，
// WebSocket 网关不区分两者（免打扰只抑制通知，不抑制同步）
type ChatEvent struct {
	Type       string    `json:"type"`
	GroupId    string    `json:"group_id"`
	MessageId  string    `json:"message_id,omitempty"`
	ActorId    string    `json:"actor_id"`
	Recipients []string  `json:"recipients"`
	Muted      []string  `json:"muted,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventBroker 事件代理接口
// Publish 由业务层调用，Events 由 WebSocket 网关消费
type EventBroker interface {
	Publish(ctx context.Context, event *ChatEvent) error
	Events() <-chan *ChatEvent
	Close() error
}

// broker 全局事件代理实例
var broker EventBroker

// Init 根据配置选择事件代理实现
// eventMode 为 "kafka" 时事件同时写入 Kafka 供通知服务消费，
// 其余情况走进程内通道
func Init() {
	conf := config.GetConfig()
	if conf.KafkaConfig.EventMode == "kafka" {
		broker = NewKafkaBroker()
		zap.L().Info("event broker: kafka", zap.String("topic", conf.KafkaConfig.EventTopic))
	} else {
		broker = NewChannelBroker()
		zap.L().Info("event broker: channel")
	}
}

// GetBroker 获取全局事件代理
func GetBroker() EventBroker {
	return broker
}

// Close 关闭全局事件代理
func Close() {
	if broker != nil {
		if err := broker.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
}
