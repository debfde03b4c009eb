// Package mq 提供聊天事件的发布与订阅
// 本文件实现进程内通道版事件代理，单实例部署时使用
package mq

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"project_chat_server/pkg/constants"
)

// channelBroker 进程内事件代理
// 发布与消费通过带缓冲通道解耦，通道满时丢弃事件并记日志：
// 事件只驱动推送与通知，真实状态以数据库为准，丢失可容忍
type channelBroker struct {
	mu     sync.RWMutex
	closed bool
	events chan *ChatEvent
}

// NewChannelBroker 创建进程内事件代理
func NewChannelBroker() EventBroker {
	return &channelBroker{
		events: make(chan *ChatEvent, constants.CHANNEL_SIZE),
	}
}

// Publish 发布事件（非阻塞）
// 关闭后的发布是无操作，读锁保证不会写入已关闭的通道
func (b *channelBroker) Publish(_ context.Context, event *ChatEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	select {
	case b.events <- event:
	default:
		zap.L().Warn("event channel full, dropping event",
			zap.String("type", event.Type), zap.String("group_id", event.GroupId))
	}
	return nil
}

// Events 返回事件消费通道，代理关闭时通道随之关闭
func (b *channelBroker) Events() <-chan *ChatEvent {
	return b.events
}

// Close 关闭代理（幂等）
func (b *channelBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.events)
	return nil
}
