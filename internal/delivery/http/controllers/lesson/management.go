package lesson

import (
	"context"
	"net/http"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/service/course/management"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ManagementService interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	CreateMaterial(ctx context.Context, material models.Material, resource *management.Upload) (*models.Material, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(log logger.Log, service ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     log,
		service: service,
	}
}

type newLessonRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	ReleaseDate string `json:"release_date"`
}

func (h *ManagementHandler) CreateLesson(c *gin.Context) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return
	}
	var input newLessonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	lesson := models.Lesson{
		CourseID:    courseID,
		Name:        input.Name,
		Description: input.Description,
		Order:       input.Order,
	}
	if input.ReleaseDate != "" {
		d, err := time.Parse(dateLayout, input.ReleaseDate)
		if err != nil {
			respond.Validation(c, app_errors.NewValidationError("release_date", "expected YYYY-MM-DD"))
			return
		}
		lesson.ReleaseDate = &d
	}

	created, err := h.service.CreateLesson(c.Request.Context(), lesson)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": created})
}

type newMaterialRequest struct {
	Name string `form:"name" binding:"required,max=100"`
	URL  string `form:"url" binding:"omitempty,http_url"`
}

// CreateMaterial takes a multipart form: name, an optional embed url and an optional resource file.
func (h *ManagementHandler) CreateMaterial(c *gin.Context) {
	lessonID, ok := respond.ParamID(c, "lesson_id", app_errors.ErrLessonNotFound)
	if !ok {
		return
	}
	var input newMaterialRequest
	if err := c.ShouldBind(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	material := models.Material{
		LessonID: lessonID,
		Name:     input.Name,
		URL:      input.URL,
	}

	var upload *management.Upload
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open uploaded file"})
			return
		}
		defer file.Close()
		upload = &management.Upload{
			Filename:    fileHeader.Filename,
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	created, err := h.service.CreateMaterial(c.Request.Context(), material, upload)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"material": created})
}

