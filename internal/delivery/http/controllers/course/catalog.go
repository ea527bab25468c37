package course

import (
	"context"
	"fmt"
	"net/http"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/middleware"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/service/course/catalog"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogService interface {
	List(ctx context.Context, query string) ([]models.CoursePreview, error)
	Detail(ctx context.Context, id uuid.UUID, slug string) (*models.CourseDetail, error)
	Contact(ctx context.Context, course models.Course, form catalog.ContactForm) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, bool, error)
	Withdraw(ctx context.Context, userID, courseID uuid.UUID) error
}

type CatalogHandler struct {
	log         logger.Log
	catalog     CatalogService
	enrollments EnrollmentService
}

func NewCatalogHandler(l logger.Log, catalog CatalogService, enrollments EnrollmentService) *CatalogHandler {
	return &CatalogHandler{
		log:         l,
		catalog:     catalog,
		enrollments: enrollments,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	courses, err := h.catalog.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CatalogHandler) detail(c *gin.Context) (*models.CourseDetail, bool) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return nil, false
	}
	detail, err := h.catalog.Detail(c.Request.Context(), courseID, c.Param("slug"))
	if err != nil {
		respond.Fail(c, err)
		return nil, false
	}
	return detail, true
}

func (h *CatalogHandler) Detail(c *gin.Context) {
	detail, ok := h.detail(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": detail})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h *CatalogHandler) Contact(c *gin.Context) {
	detail, ok := h.detail(c)
	if !ok {
		return
	}
	var input contactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	course := models.Course{ID: detail.ID, Name: detail.Name, Slug: detail.Slug}
	form := catalog.ContactForm{Name: input.Name, Email: input.Email, Message: input.Message}
	if err := h.catalog.Contact(c.Request.Context(), course, form); err != nil {
		h.log.ErrorErr("failed to send contact mail", err, "course_id", course.ID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not send your questions, try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"course":   detail,
		"messages": []respond.Flash{respond.Success("Your questions were sent successfully")},
	})
}

func (h *CatalogHandler) Enroll(c *gin.Context) {
	detail, ok := h.detail(c)
	if !ok {
		return
	}
	userID, _ := middleware.ClientID(c)

	_, created, err := h.enrollments.Enroll(c.Request.Context(), userID, detail.ID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if created {
		respond.Redirect(c, respond.DashboardPath,
			respond.Success(fmt.Sprintf("You have been enrolled in the course %s successfully", detail.Name)))
		return
	}
	respond.Redirect(c, respond.DashboardPath,
		respond.Info(fmt.Sprintf("You are already enrolled in the course %s", detail.Name)))
}

// WithdrawConfirm shows what would be withdrawn. It runs behind EnrollmentRequired.
func (h *CatalogHandler) WithdrawConfirm(c *gin.Context) {
	course, _ := middleware.Course(c)
	c.JSON(http.StatusOK, gin.H{
		"course":  course.Preview(""),
		"confirm": fmt.Sprintf("Do you want to cancel your enrollment in the course %s?", course.Name),
	})
}

func (h *CatalogHandler) Withdraw(c *gin.Context) {
	course, _ := middleware.Course(c)
	userID, _ := middleware.ClientID(c)

	if err := h.enrollments.Withdraw(c.Request.Context(), userID, course.ID); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Redirect(c, respond.DashboardPath,
		respond.Success(fmt.Sprintf("Your enrollment in the course %s was cancelled", course.Name)))
}
