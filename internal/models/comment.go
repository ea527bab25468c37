package models

import (
	"time"

	"github.com/google/uuid"
)

const commentSummaryLen = 50

type Comment struct {
	ID             uuid.UUID `json:"id"`
	AnnouncementID uuid.UUID `json:"announcement_id"`
	UserID         uuid.UUID `json:"user_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c Comment) Summary() string {
	r := []rune(c.Content)
	if len(r) <= commentSummaryLen {
		return c.Content
	}
	return string(r[:commentSummaryLen]) + "..."
}
