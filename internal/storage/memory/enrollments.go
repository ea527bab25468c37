package memory

import (
	"context"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return app_errors.ErrAlreadyEnrolled
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := db.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	db.enrollments = append(db.enrollments, *e)
	return nil
}

func (db *DB) EnrollmentByID(_ context.Context, id uuid.UUID) (*models.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, e := range db.enrollments {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, app_errors.ErrEnrollmentNotFound
}

func (db *DB) EnrollmentByUserCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, e := range db.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, app_errors.ErrEnrollmentNotFound
}

func (db *DB) UpdateEnrollmentStatus(_ context.Context, id uuid.UUID, status models.EnrollmentStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.enrollments {
		if db.enrollments[i].ID == id {
			db.enrollments[i].Status = status
			db.enrollments[i].UpdatedAt = db.now()
			return nil
		}
	}
	return app_errors.ErrEnrollmentNotFound
}

func (db *DB) DeleteEnrollment(_ context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.enrollments {
		if db.enrollments[i].ID == id {
			db.enrollments = append(db.enrollments[:i], db.enrollments[i+1:]...)
			return nil
		}
	}
	return app_errors.ErrEnrollmentNotFound
}

func (db *DB) EnrollmentsByUser(_ context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	enrollments := make([]models.Enrollment, 0)
	for _, e := range db.enrollments {
		if e.UserID == userID {
			enrollments = append(enrollments, e)
		}
	}
	return enrollments, nil
}

func (db *DB) ApprovedEnrollees(_ context.Context, courseID uuid.UUID) ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	users := make([]models.User, 0)
	for _, e := range db.enrollments {
		if e.CourseID != courseID || e.Status != models.EnrollmentApproved {
			continue
		}
		for _, u := range db.users {
			if u.ID == e.UserID {
				users = append(users, u)
				break
			}
		}
	}
	return users, nil
}
