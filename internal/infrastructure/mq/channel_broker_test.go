package mq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project_chat_server/pkg/constants"
)

func TestChannelBrokerPublishAndConsume(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()

	event := &ChatEvent{
		Type:       EventMessageSent,
		GroupId:    "G001",
		MessageId:  "9001",
		ActorId:    "u1",
		Recipients: []string{"u2", "u3"},
		OccurredAt: time.Now(),
	}
	require.NoError(t, b.Publish(context.Background(), event))

	select {
	case got := <-b.Events():
		require.Equal(t, event, got)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestChannelBrokerDropsWhenFull(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()

	// 填满缓冲后继续发布不阻塞也不报错（事件可容忍丢失）
	for i := 0; i < constants.CHANNEL_SIZE+10; i++ {
		require.NoError(t, b.Publish(context.Background(), &ChatEvent{Type: EventMemberAdded, GroupId: "G001"}))
	}

	var received int
	for {
		select {
		case <-b.Events():
			received++
			continue
		default:
		}
		break
	}
	require.Equal(t, constants.CHANNEL_SIZE, received)
}

func TestChannelBrokerPublishAfterClose(t *testing.T) {
	b := NewChannelBroker()
	require.NoError(t, b.Close())
	require.NoError(t, b.Publish(context.Background(), &ChatEvent{Type: EventMessageSent}))
}
