package board

import (
	"context"
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
	msgCommentSent   = "Your comment was sent"
	msgCommentEdited = "Your comment was edited"
)

type BoardService interface {
	Create(ctx context.Context, courseID uuid.UUID, title, content string) (*models.Announcement, error)
	Update(ctx context.Context, courseID, id uuid.UUID, title, content string) (*models.Announcement, error)
	List(ctx context.Context, courseID uuid.UUID) ([]models.Announcement, error)
	Detail(ctx context.Context, courseID, id uuid.UUID) (*models.AnnouncementDetail, error)
	AddComment(ctx context.Context, courseID, announcementID, userID uuid.UUID, content string) (*models.Comment, error)
	CommentForEdit(ctx context.Context, courseID, announcementID, commentID, userID uuid.UUID) (*models.Comment, error)
	EditComment(ctx context.Context, courseID, announcementID, commentID, userID uuid.UUID, content string) (*models.Comment, error)
}

type BoardHandler struct {
	log     logger.Log
	service BoardService
}

func NewBoardHandler(log logger.Log, service BoardService) *BoardHandler {
	return &BoardHandler{
		log:     log,
		service: service,
	}
}

func (h *BoardHandler) Announcements(c *gin.Context) {
	course, _ := middleware.Course(c)
	announcements, err := h.service.List(c.Request.Context(), course.ID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course.Preview(""), "announcements": announcements})
}

func (h *BoardHandler) Announcement(c *gin.Context) {
	course, _ := middleware.Course(c)
	announcementID, ok := respond.ParamID(c, "announcement_id", app_errors.ErrAnnouncementNotFound)
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), course.ID, announcementID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course.Preview(""), "announcement": detail})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *BoardHandler) AddComment(c *gin.Context) {
	course, _ := middleware.Course(c)
	userID, _ := middleware.ClientID(c)
	announcementID, ok := respond.ParamID(c, "announcement_id", app_errors.ErrAnnouncementNotFound)
	if !ok {
		return
	}
	var input commentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	if _, err := h.service.AddComment(c.Request.Context(), course.ID, announcementID, userID, input.Content); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Redirect(c, respond.AnnouncementPath(*course, announcementID), respond.Success(msgCommentSent))
}

func (h *BoardHandler) commentIDs(c *gin.Context) (announcementID, commentID uuid.UUID, ok bool) {
	announcementID, ok = respond.ParamID(c, "announcement_id", app_errors.ErrAnnouncementNotFound)
	if !ok {
		return
	}
	commentID, ok = respond.ParamID(c, "comment_id", app_errors.ErrCommentNotFound)
	return
}

func (h *BoardHandler) EditCommentForm(c *gin.Context) {
	course, _ := middleware.Course(c)
	userID, _ := middleware.ClientID(c)
	announcementID, commentID, ok := h.commentIDs(c)
	if !ok {
		return
	}
	comment, err := h.service.CommentForEdit(c.Request.Context(), course.ID, announcementID, commentID, userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *BoardHandler) EditComment(c *gin.Context) {
	course, _ := middleware.Course(c)
	userID, _ := middleware.ClientID(c)
	announcementID, commentID, ok := h.commentIDs(c)
	if !ok {
		return
	}
	var input commentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}

	_, err := h.service.EditComment(c.Request.Context(), course.ID, announcementID, commentID, userID, input.Content)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Redirect(c, respond.AnnouncementPath(*course, announcementID), respond.Success(msgCommentEdited))
}

type announcementRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
}

// CreateAnnouncement is staff only. Enrollees hear about it through the announcement subscriber.
func (h *BoardHandler) CreateAnnouncement(c *gin.Context) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return
	}
	var input announcementRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	a, err := h.service.Create(c.Request.Context(), courseID, input.Title, input.Content)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"announcement": a})
}

func (h *BoardHandler) UpdateAnnouncement(c *gin.Context) {
	courseID, ok := respond.ParamID(c, "course_id", app_errors.ErrCourseNotFound)
	if !ok {
		return
	}
	announcementID, ok := respond.ParamID(c, "announcement_id", app_errors.ErrAnnouncementNotFound)
	if !ok {
		return
	}
	var input announcementRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Bind(c, err)
		return
	}
	a, err := h.service.Update(c.Request.Context(), courseID, announcementID, input.Title, input.Content)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcement": a})
}
