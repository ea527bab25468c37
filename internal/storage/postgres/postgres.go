package postgres

import (
	"context"
	"fmt"

	"SimpleMOOC/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	Pool *pgxpool.Pool
}

func NewPostgresPool(username, password, host, port, dbName string) (*Storage, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", username, password, host, port, dbName)
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Storage{Pool: pool}, nil
}

func (p *Storage) Repositories() storage.Repositories {
	return storage.Repositories{
		Users:         NewUserPostgres(p.Pool),
		Tokens:        NewTokensPostgres(p.Pool),
		Courses:       NewCoursePostgres(p.Pool),
		Lessons:       NewLessonPostgres(p.Pool),
		Materials:     NewMaterialPostgres(p.Pool),
		Enrollments:   NewEnrollmentPostgres(p.Pool),
		Announcements: NewAnnouncementPostgres(p.Pool),
		Comments:      NewCommentPostgres(p.Pool),
	}
}

func (p *Storage) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
