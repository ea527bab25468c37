package auth

import (
	"context"
	"errors"
	"net/http"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	LoginUser(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error)
}

type AuthHandler struct {
	AuthService AuthService
	log         logger.Log
}

func NewAuthHandler(l logger.Log, auth AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		log:         l,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=30"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"max=100"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	user, err := h.AuthService.CreateUser(c.Request.Context(), models.User{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		FullName: input.FullName,
	})
	if err != nil {
		if !errors.Is(err, app_errors.ErrUserExists) && !errors.Is(err, app_errors.ErrIncorrectPassword) &&
			!errors.Is(err, app_errors.ErrValidation) {
			h.log.ErrorErr("error handling register user", err)
		}
		respond.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration success", "id": user.ID})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	accessToken, refreshToken, err := h.AuthService.LoginUser(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) || errors.Is(err, app_errors.ErrIncorrectPassword) ||
			errors.Is(err, app_errors.ErrUserInactive) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.ErrorErr("error handling login user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type tokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input tokenRefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	tokenPair, err := h.AuthService.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) || errors.Is(err, app_errors.ErrTokenExpired) ||
			errors.Is(err, app_errors.ErrTokenNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.Debug("refresh rejected", logger.Err(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}

	access, refresh := tokenPair.Raw()
	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
