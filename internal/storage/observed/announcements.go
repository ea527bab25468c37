// Package observed decorates repositories so that writes publish domain events.
package observed

import (
	"context"

	"SimpleMOOC/internal/events"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage"
)

type publisher interface {
	Publish(ctx context.Context, e events.Event)
}

// AnnouncementStore publishes AnnouncementCreated after every successful insert.
// Updates go straight through.
type AnnouncementStore struct {
	storage.AnnouncementRepository
	bus publisher
}

func NewAnnouncementStore(repo storage.AnnouncementRepository, bus publisher) *AnnouncementStore {
	return &AnnouncementStore{AnnouncementRepository: repo, bus: bus}
}

func (s *AnnouncementStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := s.AnnouncementRepository.CreateAnnouncement(ctx, a); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.AnnouncementCreated{Announcement: *a})
	return nil
}
