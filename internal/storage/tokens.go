package storage

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/golang-jwt/jwt/v5"
)

// HashToken is the stored form of a refresh token.
func HashToken(token *jwt.Token) string {
	sum := sha256.Sum256([]byte(token.Raw))
	return base64.StdEncoding.EncodeToString(sum[:])
}
