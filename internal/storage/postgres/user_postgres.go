package postgres

import (
	"context"
	"errors"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = `id, username, password, email, full_name, is_active, is_staff, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.FullName,
		&user.IsActive, &user.IsStaff, &user.DateJoined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserPostgres) UserByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, name))
}

func (r *UserPostgres) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	query := `
		INSERT INTO users (id, username, password, email, full_name, is_active, is_staff, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Password, user.Email, user.FullName,
		user.IsActive, user.IsStaff, user.DateJoined)
	if err != nil {
		return nil, userWriteError(err, "failed to insert user")
	}
	return &user, nil
}

func (r *UserPostgres) UpdateUser(ctx context.Context, user models.User) error {
	query := `
		UPDATE users
		   SET username = $2, email = $3, full_name = $4, password = $5, is_active = $6, is_staff = $7
		 WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Email, user.FullName, user.Password,
		user.IsActive, user.IsStaff)
	if err != nil {
		return userWriteError(err, "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}
