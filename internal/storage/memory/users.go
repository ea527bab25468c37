package memory

import (
	"context"
	"strings"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func (db *DB) userConflict(user models.User) bool {
	for _, u := range db.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

func (db *DB) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if db.userConflict(user) {
		return nil, app_errors.ErrUserExists
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = db.now()
	}
	db.users = append(db.users, user)
	return &user, nil
}

func (db *DB) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, u := range db.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (db *DB) UserByName(_ context.Context, username string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, u := range db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (db *DB) UpdateUser(_ context.Context, user models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.users {
		if db.users[i].ID != user.ID {
			continue
		}
		if db.userConflict(user) {
			return app_errors.ErrUserExists
		}
		user.DateJoined = db.users[i].DateJoined
		db.users[i] = user
		return nil
	}
	return app_errors.ErrUserNotFound
}

func (db *DB) Create(_ context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	rt := models.RefreshToken{
		UserID:      userID,
		HashedToken: storage.HashToken(token),
		CreatedAt:   db.now(),
	}
	if expiresAt != nil {
		rt.ExpiresAt = expiresAt.Time
	}
	db.tokens = append(db.tokens, rt)
	return &rt, nil
}

func (db *DB) ByPrimaryKey(_ context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	hashed := storage.HashToken(token)
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, t := range db.tokens {
		if t.UserID == userID && t.HashedToken == hashed {
			return &t, nil
		}
	}
	return nil, app_errors.ErrTokenNotFound
}

func (db *DB) DeleteUserTokens(_ context.Context, userID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	kept := db.tokens[:0]
	for _, t := range db.tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	db.tokens = kept
	return nil
}
