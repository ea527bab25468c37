// Package memory keeps every repository in process memory. It mirrors the
// uniqueness rules of the postgres schema and returns the same sentinel errors.
package memory

import (
	"sync"
	"time"

	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage"
)

type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	users         []models.User
	tokens        []models.RefreshToken
	courses       []models.Course
	lessons       []models.Lesson
	materials     []models.Material
	enrollments   []models.Enrollment
	announcements []models.Announcement
	comments      []models.Comment
}

func New() *DB {
	return &DB{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the clock used for created/updated timestamps.
func (db *DB) WithClock(now func() time.Time) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
	return db
}

func (db *DB) Repositories() storage.Repositories {
	return storage.Repositories{
		Users:         db,
		Tokens:        db,
		Courses:       db,
		Lessons:       db,
		Materials:     db,
		Enrollments:   db,
		Announcements: db,
		Comments:      db,
	}
}
