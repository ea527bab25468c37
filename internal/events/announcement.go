package events

import "SimpleMOOC/internal/models"

const AnnouncementCreatedEvent = "announcement.created"

type AnnouncementCreated struct {
	Announcement models.Announcement
}

func (AnnouncementCreated) Name() string {
	return AnnouncementCreatedEvent
}
