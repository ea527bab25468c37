package account

import (
	"context"
	"errors"
	"net/http"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/middleware"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountService interface {
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, username, email, fullName string) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
}

type DashboardService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentWithCourse, error)
}

type AccountHandler struct {
	log       logger.Log
	accounts  AccountService
	dashboard DashboardService
}

func NewAccountHandler(l logger.Log, accounts AccountService, dashboard DashboardService) *AccountHandler {
	return &AccountHandler{
		log:       l,
		accounts:  accounts,
		dashboard: dashboard,
	}
}

type dashboardResponse struct {
	User        *models.User                  `json:"user"`
	Enrollments []models.EnrollmentWithCourse `json:"enrollments"`
}

func (h *AccountHandler) Dashboard(c *gin.Context) {
	userID, _ := middleware.ClientID(c)
	user, err := h.accounts.User(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	enrollments, err := h.dashboard.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{User: user, Enrollments: enrollments})
}

type editAccountRequest struct {
	Username string `json:"username" binding:"required,max=30"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"max=100"`
}

func (h *AccountHandler) Edit(c *gin.Context) {
	var input editAccountRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	userID, _ := middleware.ClientID(c)

	user, err := h.accounts.UpdateAccount(c.Request.Context(), userID, input.Username, input.Email, input.FullName)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "messages": []respond.Flash{respond.Success("Your account was updated")}})
}

type passwordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AccountHandler) Password(c *gin.Context) {
	var input passwordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	userID, _ := middleware.ClientID(c)

	err := h.accounts.ChangePassword(c.Request.Context(), userID, input.OldPassword, input.NewPassword)
	if err != nil {
		if errors.Is(err, app_errors.ErrIncorrectPassword) {
			respond.Validation(c, app_errors.NewValidationError("old_password", "incorrect password"))
			return
		}
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": []respond.Flash{respond.Success("Your password was changed")}})
}
