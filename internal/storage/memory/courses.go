package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
)

func (db *DB) NewCourse(_ context.Context, course *models.Course) (uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := db.now()
	course.CreatedAt = now
	course.UpdatedAt = now
	db.courses = append(db.courses, *course)
	return course.ID, nil
}

func (db *DB) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, app_errors.ErrCourseNotFound
}

func (db *DB) CourseByIDAndSlug(_ context.Context, id uuid.UUID, slug string) (*models.Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.courses {
		if c.ID == id && c.Slug == slug {
			return &c, nil
		}
	}
	return nil, app_errors.ErrCourseNotFound
}

func (db *DB) filterCourses(keep func(models.Course) bool) []models.Course {
	db.mu.RLock()
	defer db.mu.RUnlock()
	courses := make([]models.Course, 0, len(db.courses))
	for _, c := range db.courses {
		if keep(c) {
			courses = append(courses, c)
		}
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses
}

func (db *DB) ListCourses(_ context.Context) ([]models.Course, error) {
	return db.filterCourses(func(models.Course) bool { return true }), nil
}

func (db *DB) SearchCourses(_ context.Context, term string) ([]models.Course, error) {
	term = strings.ToLower(term)
	return db.filterCourses(func(c models.Course) bool {
		return strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Description), term)
	}), nil
}

func (db *DB) updateCourse(id uuid.UUID, apply func(*models.Course)) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.courses {
		if db.courses[i].ID == id {
			apply(&db.courses[i])
			db.courses[i].UpdatedAt = db.now()
			return nil
		}
	}
	return app_errors.ErrCourseNotFound
}

func (db *DB) UpdateStartDate(_ context.Context, id uuid.UUID, startDate *time.Time) error {
	return db.updateCourse(id, func(c *models.Course) { c.StartDate = startDate })
}

func (db *DB) UpdateCourseImage(_ context.Context, id uuid.UUID, objectKey string) error {
	return db.updateCourse(id, func(c *models.Course) { c.ImageObjectKey = objectKey })
}
