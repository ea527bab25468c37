package mail

import (
	"context"
	"sync"
)

// Outbox keeps delivered messages in memory. Recipients registered with FailFor
// are rejected with the given error.
type Outbox struct {
	mu       sync.Mutex
	messages []Message
	failures map[string]error
}

func NewOutbox() *Outbox {
	return &Outbox{failures: make(map[string]error)}
}

func (o *Outbox) FailFor(recipient string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures[recipient] = err
}

func (o *Outbox) Deliver(_ context.Context, msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, to := range msg.To {
		if err, ok := o.failures[to]; ok {
			return err
		}
	}
	o.messages = append(o.messages, msg)
	return nil
}

func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.messages...)
}

func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}
