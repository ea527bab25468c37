package models

import (
	"time"

	"github.com/google/uuid"
)

const AnnouncementTitleMaxLen = 100

type Announcement struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AnnouncementDetail struct {
	Announcement Announcement `json:"announcement"`
	Comments     []Comment    `json:"comments"`
}
