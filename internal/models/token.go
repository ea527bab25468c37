package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RefreshToken is the stored side of an issued refresh JWT. Only the hash of the
// signed token is kept.
type RefreshToken struct {
	UserID      uuid.UUID `json:"-"`
	HashedToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the token is no longer usable at now. A token is
// rejected at its expiry instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type TokenPair struct {
	AccessToken  *jwt.Token
	RefreshToken *jwt.Token
}

// Raw returns the signed access and refresh strings.
func (p TokenPair) Raw() (access, refresh string) {
	return p.AccessToken.Raw, p.RefreshToken.Raw
}
