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

type AnnouncementPostgres struct {
	db *pgxpool.Pool
}

func NewAnnouncementPostgres(db *pgxpool.Pool) *AnnouncementPostgres {
	return &AnnouncementPostgres{db: db}
}

const announcementColumns = `id, course_id, title, content, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(&a.ID, &a.CourseID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementPostgres) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `INSERT INTO announcements (` + announcementColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, a.ID, a.CourseID, a.Title, a.Content, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementPostgres) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	a.UpdatedAt = time.Now().UTC()
	query := `UPDATE announcements SET title = $3, content = $4, updated_at = $5 WHERE id = $1 AND course_id = $2`
	tag, err := r.db.Exec(ctx, query, a.ID, a.CourseID, a.Title, a.Content, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementPostgres) AnnouncementByID(ctx context.Context, courseID, id uuid.UUID) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1 AND course_id = $2`
	return scanAnnouncement(r.db.QueryRow(ctx, query, id, courseID))
}

func (r *AnnouncementPostgres) AnnouncementsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE course_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]models.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, *a)
	}
	return announcements, rows.Err()
}
