package catalog

import (
	"context"
	"strings"

	"SimpleMOOC/internal/models"
)

// CourseStore is what Search needs from a store.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	SearchCourses(ctx context.Context, term string) ([]models.Course, error)
}

// Search returns courses whose name or description contains term, ignoring case.
// A blank term returns every course.
func Search(ctx context.Context, store CourseStore, term string) ([]models.Course, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return store.ListCourses(ctx)
	}
	return store.SearchCourses(ctx, term)
}
