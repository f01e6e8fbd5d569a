package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MessageCapture collects messages from a subscription for later assertions.
type MessageCapture struct {
	messages []*message.Message
	mutex    sync.RWMutex
}

// NewMessageCapture creates a new message capture instance
func NewMessageCapture() *MessageCapture {
	return &MessageCapture{}
}

// Consume acks and stores every message from ch until it closes or ctx ends.
func (mc *MessageCapture) Consume(ctx context.Context, ch <-chan *message.Message) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				mc.mutex.Lock()
				mc.messages = append(mc.messages, msg)
				mc.mutex.Unlock()
				msg.Ack()
			}
		}
	}()
}

// GetMessages returns a copy of the captured messages.
func (mc *MessageCapture) GetMessages() []*message.Message {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	msgs := make([]*message.Message, len(mc.messages))
	copy(msgs, mc.messages)
	return msgs
}

// WaitForMessages waits for at least expectedCount messages with timeout
func (mc *MessageCapture) WaitForMessages(expectedCount int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if len(mc.GetMessages()) >= expectedCount {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
