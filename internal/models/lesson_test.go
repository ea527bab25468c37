package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonIsAvailable(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		release *time.Time
		want    bool
	}{
		{"no release date", nil, false},
		{"released yesterday", Date(2024, time.March, 9), true},
		{"released today", Date(2024, time.March, 10), true},
		{"released tomorrow", Date(2024, time.March, 11), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lesson{ReleaseDate: tt.release}
			assert.Equal(t, tt.want, l.IsAvailable(now))
		})
	}
}

func TestLessonAvailableOnReleaseDayRegardlessOfHour(t *testing.T) {
	release := time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC)
	l := Lesson{ReleaseDate: &release}

	assert.True(t, l.IsAvailable(time.Date(2024, time.March, 10, 0, 1, 0, 0, time.UTC)))
}

func TestReleasedLessonsOrderedAndFiltered(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	lessons := []Lesson{
		{Name: "third", Order: 3, ReleaseDate: Date(2024, time.March, 1)},
		{Name: "future", Order: 4, ReleaseDate: Date(2024, time.April, 1)},
		{Name: "first", Order: 1, ReleaseDate: Date(2024, time.February, 1)},
		{Name: "undated", Order: 2},
	}

	released := ReleasedLessons(lessons, now)

	require.Len(t, released, 2)
	assert.Equal(t, "first", released[0].Name)
	assert.Equal(t, "third", released[1].Name)
}

func TestNeighboursUseExactOrder(t *testing.T) {
	released := []Lesson{
		{ID: uuid.New(), Order: 1},
		{ID: uuid.New(), Order: 2},
		{ID: uuid.New(), Order: 4},
	}

	prev, next := Neighbours(released, released[1])
	require.NotNil(t, prev)
	assert.Equal(t, released[0].ID, prev.ID)
	assert.Nil(t, next, "order 3 is missing so there is no next")

	prev, next = Neighbours(released, released[0])
	assert.Nil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, released[1].ID, next.ID)
}
