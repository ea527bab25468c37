package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CourseNameMaxLen        = 150
	CourseSlugMaxLen        = 50
	CourseDescriptionMaxLen = 250
)

type Course struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	About          string     `json:"about"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	ImageObjectKey string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CoursePreview struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
}

type CourseDetail struct {
	CoursePreview
	About string `json:"about"`
}

func (c Course) Preview(imageURL string) CoursePreview {
	return CoursePreview{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		StartDate:   c.StartDate,
		ImageURL:    imageURL,
	}
}
