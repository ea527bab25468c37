package observed

import (
	"context"
	"testing"

	"SimpleMOOC/internal/events"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage/memory"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementStorePublishesOnCreateOnly(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(logger.Discard(), false)

	var seen []models.Announcement
	bus.Subscribe(events.AnnouncementCreatedEvent, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.(events.AnnouncementCreated).Announcement)
		return nil
	})

	store := NewAnnouncementStore(memory.New(), bus)
	a := &models.Announcement{CourseID: uuid.New(), Title: "Welcome", Content: "Hello"}
	require.NoError(t, store.CreateAnnouncement(ctx, a))

	require.Len(t, seen, 1)
	assert.Equal(t, a.ID, seen[0].ID)
	assert.Equal(t, "Welcome", seen[0].Title)

	a.Title = "Welcome back"
	require.NoError(t, store.UpdateAnnouncement(ctx, a))
	assert.Len(t, seen, 1)
}
