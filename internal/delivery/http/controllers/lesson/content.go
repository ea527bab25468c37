package lesson

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

const (
	msgLessonUnavailable   = "This lesson is not available"
	msgMaterialUnavailable = "This material is not available"
	msgNoEmbeddedVideo     = "This material has no video available, try the resources below"
)

type ContentService interface {
	Lessons(ctx context.Context, course models.Course, staff bool) ([]models.Lesson, error)
	LessonDetail(ctx context.Context, course models.Course, lessonID uuid.UUID, staff bool) (*models.LessonDetail, error)
	MaterialDetail(ctx context.Context, course models.Course, materialID uuid.UUID, staff bool) (*models.MaterialDetail, error)
}

// ContentHandler serves the gated lesson pages; every route runs behind EnrollmentRequired.
type ContentHandler struct {
	log     logger.Log
	service ContentService
}

func NewContentHandler(log logger.Log, service ContentService) *ContentHandler {
	return &ContentHandler{
		log:     log,
		service: service,
	}
}

func (h *ContentHandler) Lessons(c *gin.Context) {
	course, _ := middleware.Course(c)
	lessons, err := h.service.Lessons(c.Request.Context(), *course, middleware.IsStaff(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course.Preview(""), "lessons": lessons})
}

func (h *ContentHandler) Lesson(c *gin.Context) {
	course, _ := middleware.Course(c)
	lessonID, ok := respond.ParamID(c, "lesson_id", app_errors.ErrLessonNotFound)
	if !ok {
		return
	}

	detail, err := h.service.LessonDetail(c.Request.Context(), *course, lessonID, middleware.IsStaff(c))
	if err != nil {
		if errors.Is(err, app_errors.ErrLessonUnavailable) {
			respond.Redirect(c, respond.LessonsPath(*course), respond.Error(msgLessonUnavailable))
			return
		}
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course.Preview(""), "lesson": detail})
}

func (h *ContentHandler) Material(c *gin.Context) {
	course, _ := middleware.Course(c)
	materialID, ok := respond.ParamID(c, "material_id", app_errors.ErrMaterialNotFound)
	if !ok {
		return
	}

	detail, err := h.service.MaterialDetail(c.Request.Context(), *course, materialID, middleware.IsStaff(c))
	switch {
	case errors.Is(err, app_errors.ErrMaterialUnavailable):
		respond.Redirect(c, respond.LessonsPath(*course), respond.Error(msgMaterialUnavailable))
	case errors.Is(err, app_errors.ErrNoEmbeddedVideo):
		respond.Redirect(c, respond.LessonPath(*course, detail.Lesson.ID), respond.Error(msgNoEmbeddedVideo))
	case err != nil:
		respond.Fail(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"course": course.Preview(""), "material": detail})
	}
}
