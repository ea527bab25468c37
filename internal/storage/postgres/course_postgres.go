package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

const courseColumns = `id, name, slug, description, about, start_date, image_object_key, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(&course.ID, &course.Name, &course.Slug, &course.Description, &course.About,
		&course.StartDate, &course.ImageObjectKey, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func collectCourses(rows pgx.Rows) ([]models.Course, error) {
	defer rows.Close()
	courses := make([]models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		course.ID, course.Name, course.Slug, course.Description, course.About,
		course.StartDate, course.ImageObjectKey, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return course.ID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

func (r *CoursePostgres) CourseByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND slug = $2`
	return scanCourse(r.db.QueryRow(ctx, query, id, slug))
}

func (r *CoursePostgres) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return collectCourses(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *CoursePostgres) SearchCourses(ctx context.Context, term string) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		  FROM courses
		 WHERE name ILIKE $1 OR description ILIKE $1
		 ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, "%"+likeEscaper.Replace(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return collectCourses(rows)
}

func (r *CoursePostgres) UpdateStartDate(ctx context.Context, id uuid.UUID, startDate *time.Time) error {
	query := `UPDATE courses SET start_date = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, startDate, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) UpdateCourseImage(ctx context.Context, id uuid.UUID, objectKey string) error {
	query := `UPDATE courses SET image_object_key = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, objectKey, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}
