// Package mq 提供聊天事件的发布与订阅
// 本文件实现 Kafka 版事件代理
// 使用 github.com/segmentio/kafka-go 作为客户端
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	myconfig "project_chat_server/internal/config"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

// kafkaBroker Kafka 事件代理
// Publish 写入事件主题供通知服务等外部消费方订阅；
// 同时起一个消费组把事件读回进程内通道，WebSocket 网关
// 的消费方式与 channel 模式保持一致
type kafkaBroker struct {
	writer *kafka.Writer
	reader *kafka.Reader
	events chan *ChatEvent
	cancel context.CancelFunc
}

// NewKafkaBroker 创建 Kafka 事件代理并启动消费循环
func NewKafkaBroker() EventBroker {
	kafkaConfig := myconfig.GetConfig().KafkaConfig

	b := &kafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: false,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.EventTopic,
			CommitInterval: kafkaConfig.Timeout * time.Second,
			GroupID:        "chat_gateway",
			StartOffset:    kafka.LastOffset,
		}),
		events: make(chan *ChatEvent, constants.CHANNEL_SIZE),
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.consumeLoop(ctx)

	return b
}

// Publish 将事件序列化后写入 Kafka
// 以群组 ID 作为分区键，同群事件保持有序
func (b *kafkaBroker) Publish(ctx context.Context, event *ChatEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "marshal chat event")
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.GroupId),
		Value: value,
	}); err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "kafka write event type=%s", event.Type)
	}
	return nil
}

// consumeLoop 消费事件主题并转投进程内通道
// 通道只由本循环写入，退出时由本循环关闭
func (b *kafkaBroker) consumeLoop(ctx context.Context) {
	defer close(b.events)
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka read event error", zap.Error(err))
			continue
		}

		var event ChatEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			zap.L().Error("unmarshal chat event error", zap.Error(err))
			continue
		}

		select {
		case b.events <- &event:
		default:
			zap.L().Warn("event channel full, dropping event", zap.String("type", event.Type))
		}
	}
}

// Events 返回事件消费通道
func (b *kafkaBroker) Events() <-chan *ChatEvent {
	return b.events
}

// Close 关闭写入器与消费循环
func (b *kafkaBroker) Close() error {
	b.cancel()
	var errs []error
	if err := b.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.reader.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
