package course

import (
	"context"
	"io"
	"net/http"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type ManagementService interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	UploadCourseImage(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	SyncStartDate(ctx context.Context, courseID uuid.UUID) (*models.Course, error)
}

type ModerationService interface {
	Approve(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
}

type ManagementHandler struct {
	log        logger.Log
	service    ManagementService
	moderation ModerationService
}

func NewManagementHandler(l logger.Log, s ManagementService, m ModerationService) *ManagementHandler {
	return &ManagementHandler{
		log:        l,
		service:    s,
		moderation: m,
	}
}

type newCourseRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Slug        string `json:"slug" binding:"max=50"`
	Description string `json:"description" binding:"max=250"`
	About       string `json:"about"`
	StartDate   string `json:"start_date"`
}

func (h *ManagementHandler) CreateCourse(c *gin.Context) {
	var input newCourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	course := models.Course{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		About:       input.About,
	}
	if input.StartDate != "" {
		d, err := time.Parse(dateLayout, input.StartDate)
		if err != nil {
			respond.Validation(c, app_errors.NewValidationError("start_date", "expected YYYY-MM-DD"))
			return
		}
		course.StartDate = &d
	}

	created, err := h.service.CreateCourse(c.Request.Context(), course)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": created, "path": respond.CoursePath(*created)})
}

func (h *ManagementHandler) UploadCourseImage(c *gin.Context) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Validation(c, app_errors.NewValidationError("file", "required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.service.UploadCourseImage(c.Request.Context(), courseID, fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// SyncStartDate copies the first lesson's release date onto the course.
func (h *ManagementHandler) SyncStartDate(c *gin.Context) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return
	}
	course, err := h.service.SyncStartDate(c.Request.Context(), courseID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *ManagementHandler) moderate(c *gin.Context, action func(context.Context, uuid.UUID) (*models.Enrollment, error)) {
	id, ok := respond.ParamID(c, "enrollment_id", app_errors.ErrEnrollmentNotFound)
	if !ok {
		return
	}
	e, err := action(c.Request.Context(), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": e})
}

func (h *ManagementHandler) ApproveEnrollment(c *gin.Context) {
	h.moderate(c, h.moderation.Approve)
}

func (h *ManagementHandler) CancelEnrollment(c *gin.Context) {
	h.moderate(c, h.moderation.Cancel)
}
