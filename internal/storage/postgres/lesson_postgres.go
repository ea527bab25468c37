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

type LessonPostgres struct {
	db *pgxpool.Pool
}

func NewLessonPostgres(db *pgxpool.Pool) *LessonPostgres {
	return &LessonPostgres{db: db}
}

const lessonColumns = `id, course_id, name, description, lesson_order, release_date, created_at, updated_at`

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(&lesson.ID, &lesson.CourseID, &lesson.Name, &lesson.Description,
		&lesson.Order, &lesson.ReleaseDate, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonPostgres) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	now := time.Now().UTC()
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	query := `
		INSERT INTO lessons (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		lesson.ID, lesson.CourseID, lesson.Name, lesson.Description,
		lesson.Order, lesson.ReleaseDate, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return nil, lessonInsertError(err)
	}
	return &lesson, nil
}

func (r *LessonPostgres) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	return scanLesson(r.db.QueryRow(ctx, query, id))
}

func (r *LessonPostgres) LessonByOrder(ctx context.Context, courseID uuid.UUID, order int) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 AND lesson_order = $2`
	return scanLesson(r.db.QueryRow(ctx, query, courseID, order))
}

func (r *LessonPostgres) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY lesson_order`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *lesson)
	}
	return lessons, rows.Err()
}
