package memory

import (
	"context"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateLesson(_ context.Context, lesson models.Lesson) (*models.Lesson, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range db.lessons {
		if l.CourseID == lesson.CourseID && l.Order == lesson.Order {
			return nil, app_errors.ErrDuplicateLessonOrder
		}
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	now := db.now()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	db.lessons = append(db.lessons, lesson)
	return &lesson, nil
}

func (db *DB) LessonByID(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, l := range db.lessons {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, app_errors.ErrLessonNotFound
}

func (db *DB) LessonByOrder(_ context.Context, courseID uuid.UUID, order int) (*models.Lesson, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, l := range db.lessons {
		if l.CourseID == courseID && l.Order == order {
			return &l, nil
		}
	}
	return nil, app_errors.ErrLessonNotFound
}

func (db *DB) LessonsByCourse(_ context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	lessons := make([]models.Lesson, 0)
	for _, l := range db.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, l)
		}
	}
	models.SortLessons(lessons)
	return lessons, nil
}

func (db *DB) CreateMaterial(_ context.Context, material models.Material) (*models.Material, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	now := db.now()
	material.CreatedAt = now
	material.UpdatedAt = now
	db.materials = append(db.materials, material)
	return &material, nil
}

func (db *DB) MaterialByID(_ context.Context, id uuid.UUID) (*models.Material, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, m := range db.materials {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, app_errors.ErrMaterialNotFound
}

func (db *DB) MaterialsByLesson(_ context.Context, lessonID uuid.UUID) ([]models.Material, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	materials := make([]models.Material, 0)
	for _, m := range db.materials {
		if m.LessonID == lessonID {
			materials = append(materials, m)
		}
	}
	return materials, nil
}
