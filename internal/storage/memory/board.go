package memory

import (
	"context"
	"sort"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateAnnouncement(_ context.Context, a *models.Announcement) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := db.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	db.announcements = append(db.announcements, *a)
	return nil
}

func (db *DB) UpdateAnnouncement(_ context.Context, a *models.Announcement) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.announcements {
		stored := &db.announcements[i]
		if stored.ID == a.ID && stored.CourseID == a.CourseID {
			stored.Title = a.Title
			stored.Content = a.Content
			stored.UpdatedAt = db.now()
			*a = *stored
			return nil
		}
	}
	return app_errors.ErrAnnouncementNotFound
}

func (db *DB) AnnouncementByID(_ context.Context, courseID, id uuid.UUID) (*models.Announcement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, a := range db.announcements {
		if a.ID == id && a.CourseID == courseID {
			return &a, nil
		}
	}
	return nil, app_errors.ErrAnnouncementNotFound
}

// AnnouncementsByCourse is newest first; equal timestamps fall back to reverse insertion order.
func (db *DB) AnnouncementsByCourse(_ context.Context, courseID uuid.UUID) ([]models.Announcement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	announcements := make([]models.Announcement, 0)
	for i := len(db.announcements) - 1; i >= 0; i-- {
		if db.announcements[i].CourseID == courseID {
			announcements = append(announcements, db.announcements[i])
		}
	}
	sort.SliceStable(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	return announcements, nil
}

func (db *DB) CreateComment(_ context.Context, c *models.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := db.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	db.comments = append(db.comments, *c)
	return nil
}

func (db *DB) CommentByID(_ context.Context, announcementID, id uuid.UUID) (*models.Comment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.comments {
		if c.ID == id && c.AnnouncementID == announcementID {
			return &c, nil
		}
	}
	return nil, app_errors.ErrCommentNotFound
}

func (db *DB) CommentsByAnnouncement(_ context.Context, announcementID uuid.UUID) ([]models.Comment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	comments := make([]models.Comment, 0)
	for _, c := range db.comments {
		if c.AnnouncementID == announcementID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (db *DB) UpdateComment(_ context.Context, c *models.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.comments {
		stored := &db.comments[i]
		if stored.ID == c.ID && stored.AnnouncementID == c.AnnouncementID {
			stored.Content = c.Content
			stored.UpdatedAt = db.now()
			*c = *stored
			return nil
		}
	}
	return app_errors.ErrCommentNotFound
}
