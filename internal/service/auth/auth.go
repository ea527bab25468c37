package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
	maxUsernameLen = 30
)

type AuthRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

type tokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	authRepo   AuthRepo
	tokenRepo  tokenRepo
}

func NewAuthService(l logger.Log, manager *JWTManager, aRepo AuthRepo, tRepo tokenRepo) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		authRepo:   aRepo,
		tokenRepo:  tRepo,
	}
}

func (u *AuthService) RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error) {
	curToken, err := u.jwtManager.Parse(token)
	if err != nil {
		return nil, err
	}
	if !u.jwtManager.TokenType(curToken, RefreshTokenType) {
		return nil, app_errors.ErrTokenNotFound
	}
	userIDStr, err := curToken.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	tokenRecord, err := u.tokenRepo.ByPrimaryKey(ctx, userID, curToken)
	if err != nil {
		return nil, err
	}
	if tokenRecord.Expired(time.Now()) {
		return nil, app_errors.ErrTokenExpired
	}
	user, err := u.authRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}
	return u.issue(ctx, *user)
}

func (u *AuthService) issue(ctx context.Context, user models.User) (*models.TokenPair, error) {
	tokenPair, err := u.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

func (u *AuthService) ParseToken(ctx context.Context, token string) (*jwt.Token, error) {
	return u.jwtManager.Parse(token)
}

func (u *AuthService) IsAccessToken(ctx context.Context, token *jwt.Token) bool {
	return u.jwtManager.TokenType(token, AccessTokenType)
}

func (u *AuthService) AccessClaims(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := u.jwtManager.AccessClaims(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (u *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return u.authRepo.UserByID(ctx, id)
}

func (u *AuthService) LoginUser(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	user, err := u.authRepo.UserByName(ctx, username)
	if err != nil {
		return "", "", err
	}
	if !checkPasswordHash(password, user.Password) {
		return "", "", app_errors.ErrIncorrectPassword
	}
	if !user.IsActive {
		return "", "", app_errors.ErrUserInactive
	}

	tokenPair, err := u.issue(ctx, *user)
	if err != nil {
		return "", "", err
	}
	access, refresh := tokenPair.Raw()
	return access, refresh, nil
}

func validateAccount(username, email string) *app_errors.ValidationError {
	verr := &app_errors.ValidationError{}
	if username == "" {
		verr.Add("username", "required")
	} else if len(username) > maxUsernameLen {
		verr.Add("username", "too long")
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		verr.Add("email", "invalid email address")
	}
	return verr
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLen && len(password) <= maxPasswordLen
}

func (u *AuthService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if verr := validateAccount(user.Username, user.Email); !verr.Empty() {
		return nil, verr
	}
	if !validPassword(user.Password) {
		return nil, app_errors.ErrIncorrectPassword
	}

	var err error
	user.Password, err = hashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.IsActive = true

	return u.authRepo.CreateUser(ctx, user)
}

// UpdateAccount changes the editable profile fields.
func (u *AuthService) UpdateAccount(ctx context.Context, id uuid.UUID, username, email, fullName string) (*models.User, error) {
	if verr := validateAccount(username, email); !verr.Empty() {
		return nil, verr
	}
	user, err := u.authRepo.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email
	user.FullName = fullName
	if err := u.authRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *AuthService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	user, err := u.authRepo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if !checkPasswordHash(oldPassword, user.Password) {
		return app_errors.ErrIncorrectPassword
	}
	if !validPassword(newPassword) {
		return app_errors.NewValidationError("new_password", "must be between 6 and 72 characters")
	}
	user.Password, err = hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.authRepo.UpdateUser(ctx, *user); err != nil {
		return err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, id); err != nil && !errors.Is(err, app_errors.ErrTokenNotFound) {
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
