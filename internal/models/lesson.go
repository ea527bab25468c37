package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uuid.UUID  `json:"course_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsAvailable reports whether the lesson is released on the calendar day of asOf.
// A lesson without a release date is never available.
func (l Lesson) IsAvailable(asOf time.Time) bool {
	if l.ReleaseDate == nil {
		return false
	}
	return !DateOf(*l.ReleaseDate).After(DateOf(asOf))
}

// ReleasedLessons keeps the lessons available at asOf, ordered by Order.
func ReleasedLessons(lessons []Lesson, asOf time.Time) []Lesson {
	released := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.IsAvailable(asOf) {
			released = append(released, l)
		}
	}
	SortLessons(released)
	return released
}

func SortLessons(lessons []Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
}

// Neighbours looks up the lessons with order n-1 and n+1 among released.
// Gaps in the ordering leave the corresponding side nil.
func Neighbours(released []Lesson, lesson Lesson) (prev, next *Lesson) {
	for i := range released {
		switch released[i].Order {
		case lesson.Order - 1:
			prev = &released[i]
		case lesson.Order + 1:
			next = &released[i]
		}
	}
	return prev, next
}

type LessonDetail struct {
	Lesson    Lesson     `json:"lesson"`
	Materials []Material `json:"materials"`
	Previous  *Lesson    `json:"previous,omitempty"`
	Next      *Lesson    `json:"next,omitempty"`
}
