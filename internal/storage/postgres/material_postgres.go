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

type MaterialPostgres struct {
	db *pgxpool.Pool
}

func NewMaterialPostgres(db *pgxpool.Pool) *MaterialPostgres {
	return &MaterialPostgres{db: db}
}

const materialColumns = `id, lesson_id, name, url, resource_object_key, created_at, updated_at`

func scanMaterial(row pgx.Row) (*models.Material, error) {
	var m models.Material
	err := row.Scan(&m.ID, &m.LessonID, &m.Name, &m.URL, &m.ResourceObjectKey, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialPostgres) CreateMaterial(ctx context.Context, material models.Material) (*models.Material, error) {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	now := time.Now().UTC()
	material.CreatedAt = now
	material.UpdatedAt = now

	query := `INSERT INTO materials (` + materialColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, material.ID, material.LessonID, material.Name, material.URL,
		material.ResourceObjectKey, material.CreatedAt, material.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert material: %w", err)
	}
	return &material, nil
}

func (r *MaterialPostgres) MaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return scanMaterial(r.db.QueryRow(ctx, query, id))
}

func (r *MaterialPostgres) MaterialsByLesson(ctx context.Context, lessonID uuid.UUID) ([]models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE lesson_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]models.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}
