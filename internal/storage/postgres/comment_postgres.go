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

type CommentPostgres struct {
	db *pgxpool.Pool
}

func NewCommentPostgres(db *pgxpool.Pool) *CommentPostgres {
	return &CommentPostgres{db: db}
}

const commentColumns = `id, announcement_id, user_id, content, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.AnnouncementID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommentPostgres) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO comments (` + commentColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, c.ID, c.AnnouncementID, c.UserID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *CommentPostgres) CommentByID(ctx context.Context, announcementID, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND announcement_id = $2`
	return scanComment(r.db.QueryRow(ctx, query, id, announcementID))
}

func (r *CommentPostgres) CommentsByAnnouncement(ctx context.Context, announcementID uuid.UUID) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE announcement_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, announcementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *CommentPostgres) UpdateComment(ctx context.Context, c *models.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE comments SET content = $3, updated_at = $4 WHERE id = $1 AND announcement_id = $2`
	tag, err := r.db.Exec(ctx, query, c.ID, c.AnnouncementID, c.Content, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCommentNotFound
	}
	return nil
}
