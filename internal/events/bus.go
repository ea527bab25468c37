// Package events is a small in-process publish/subscribe bus. Subscribers are
// registered explicitly per event name at start-up.
package events

import (
	"context"
	"fmt"
	"sync"

	"SimpleMOOC/pkg/logger"
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, e Event) error

type Bus struct {
	log   logger.Log
	async bool

	mu   sync.RWMutex
	subs map[string][]Handler
	wg   sync.WaitGroup
}

func NewBus(log logger.Log, async bool) *Bus {
	return &Bus{
		log:   log,
		async: async,
		subs:  make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], h)
}

func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

// Publish hands e to every subscriber of e.Name(). Handler errors and panics are
// logged and never reach the publisher.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[e.Name()]...)
	b.mu.RUnlock()

	// handlers are not cancelled with the publisher's request
	ctx = context.WithoutCancel(ctx)
	for _, h := range handlers {
		if b.async {
			b.wg.Add(1)
			go func(h Handler) {
				defer b.wg.Done()
				b.run(ctx, h, e)
			}(h)
			continue
		}
		b.run(ctx, h, e)
	}
}

// Wait blocks until asynchronous handlers have returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) run(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.ErrorErr("event handler panicked", fmt.Errorf("%v", r), "event", e.Name())
		}
	}()
	if err := h(ctx, e); err != nil {
		b.log.ErrorErr("event handler failed", err, "event", e.Name())
	}
}
