package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesOnlyMatchingSubscribers(t *testing.T) {
	bus := NewBus(logger.Discard(), false)

	var got []string
	bus.Subscribe(AnnouncementCreatedEvent, func(_ context.Context, e Event) error {
		got = append(got, e.(AnnouncementCreated).Announcement.Title)
		return nil
	})
	bus.Subscribe("other", func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	bus.Publish(context.Background(), AnnouncementCreated{Announcement: models.Announcement{Title: "Welcome"}})

	assert.Equal(t, []string{"Welcome"}, got)
	assert.Equal(t, 1, bus.Subscribers(AnnouncementCreatedEvent))
}

func TestPublishSurvivesFailingHandlers(t *testing.T) {
	bus := NewBus(logger.Discard(), false)

	var calls int32
	bus.Subscribe(AnnouncementCreatedEvent, func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})
	bus.Subscribe(AnnouncementCreatedEvent, func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		panic("handler bug")
	})
	bus.Subscribe(AnnouncementCreatedEvent, func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), AnnouncementCreated{})
	})
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAsyncPublishIsTracked(t *testing.T) {
	bus := NewBus(logger.Discard(), true)

	var calls int32
	for i := 0; i < 5; i++ {
		bus.Subscribe(AnnouncementCreatedEvent, func(context.Context, Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, AnnouncementCreated{})
	cancel()
	bus.Wait()

	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

type ctxKey struct{}

func TestSyncHandlersIgnorePublisherCancellation(t *testing.T) {
	bus := NewBus(logger.Discard(), false)

	var errs []error
	var values []interface{}
	for i := 0; i < 2; i++ {
		bus.Subscribe(AnnouncementCreatedEvent, func(ctx context.Context, _ Event) error {
			errs = append(errs, ctx.Err())
			values = append(values, ctx.Value(ctxKey{}))
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	cancel()
	bus.Publish(ctx, AnnouncementCreated{})

	assert.Equal(t, []error{nil, nil}, errs)
	assert.Equal(t, []interface{}{"req-1", "req-1"}, values)
}
