package models

import (
	"time"

	"github.com/google/uuid"
)

type Material struct {
	ID                uuid.UUID `json:"id"`
	LessonID          uuid.UUID `json:"lesson_id"`
	Name              string    `json:"name"`
	URL               string    `json:"url,omitempty"`
	ResourceObjectKey string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (m Material) IsEmbedded() bool {
	return m.URL != ""
}

type MaterialDetail struct {
	Material    Material `json:"material"`
	Lesson      Lesson   `json:"lesson"`
	ResourceURL string   `json:"resource_url,omitempty"`
}
