package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

const enrollmentColumns = `id, user_id, course_id, status, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var status int16
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	e.Status = models.EnrollmentStatus(status)
	return &e, nil
}

// CreateEnrollment relies on enrollments_user_course_key to reject a second row for the
// same pair; the violation is reported as ErrAlreadyEnrolled.
func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO enrollments (` + enrollmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, e.ID, e.UserID, e.CourseID, int16(e.Status), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return enrollmentInsertError(err)
	}
	return nil
}

func (r *EnrollmentPostgres) EnrollmentByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return scanEnrollment(r.db.QueryRow(ctx, query, id))
}

func (r *EnrollmentPostgres) EnrollmentByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 AND course_id = $2`
	return scanEnrollment(r.db.QueryRow(ctx, query, userID, courseID))
}

func (r *EnrollmentPostgres) UpdateEnrollmentStatus(ctx context.Context, id uuid.UUID, status models.EnrollmentStatus) error {
	query := `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, int16(status), time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentPostgres) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentPostgres) EnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentPostgres) ApprovedEnrollees(ctx context.Context, courseID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.password, u.email, u.full_name, u.is_active, u.is_staff, u.date_joined
		  FROM users u
		  JOIN enrollments e ON e.user_id = u.id
		 WHERE e.course_id = $1 AND e.status = $2
		 ORDER BY e.created_at
	`
	rows, err := r.db.Query(ctx, query, courseID, int16(models.EnrollmentApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollees: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
