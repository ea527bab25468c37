package board

import (
	"context"
	"strings"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
)

type announcementRepo interface {
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	AnnouncementByID(ctx context.Context, courseID, id uuid.UUID) (*models.Announcement, error)
	AnnouncementsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Announcement, error)
}

type commentRepo interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, announcementID, id uuid.UUID) (*models.Comment, error)
	CommentsByAnnouncement(ctx context.Context, announcementID uuid.UUID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type BoardService struct {
	log           logger.Log
	announcements announcementRepo
	comments      commentRepo
	courses       courseRepo
}

// NewBoardService expects announcements to be the observed store when
// subscribers must hear about new announcements.
func NewBoardService(log logger.Log, announcements announcementRepo, comments commentRepo, courses courseRepo) *BoardService {
	return &BoardService{
		log:           log,
		announcements: announcements,
		comments:      comments,
		courses:       courses,
	}
}

func validateAnnouncement(title, content string) error {
	verr := &app_errors.ValidationError{}
	switch {
	case title == "":
		verr.Add("title", "required")
	case len([]rune(title)) > models.AnnouncementTitleMaxLen:
		verr.Add("title", "too long")
	}
	if content == "" {
		verr.Add("content", "required")
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func (s *BoardService) Create(ctx context.Context, courseID uuid.UUID, title, content string) (*models.Announcement, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if err := validateAnnouncement(title, content); err != nil {
		return nil, err
	}
	if _, err := s.courses.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	a := &models.Announcement{ID: uuid.New(), CourseID: courseID, Title: title, Content: content}
	if err := s.announcements.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *BoardService) Update(ctx context.Context, courseID, id uuid.UUID, title, content string) (*models.Announcement, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if err := validateAnnouncement(title, content); err != nil {
		return nil, err
	}
	a, err := s.announcements.AnnouncementByID(ctx, courseID, id)
	if err != nil {
		return nil, err
	}
	a.Title, a.Content = title, content
	if err := s.announcements.UpdateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *BoardService) List(ctx context.Context, courseID uuid.UUID) ([]models.Announcement, error) {
	return s.announcements.AnnouncementsByCourse(ctx, courseID)
}

func (s *BoardService) Detail(ctx context.Context, courseID, id uuid.UUID) (*models.AnnouncementDetail, error) {
	a, err := s.announcements.AnnouncementByID(ctx, courseID, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.CommentsByAnnouncement(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &models.AnnouncementDetail{Announcement: *a, Comments: comments}, nil
}

func (s *BoardService) AddComment(ctx context.Context, courseID, announcementID, userID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, app_errors.NewValidationError("content", "required")
	}
	a, err := s.announcements.AnnouncementByID(ctx, courseID, announcementID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{ID: uuid.New(), AnnouncementID: a.ID, UserID: userID, Content: content}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CommentForEdit hides comments written by someone else behind ErrCommentNotFound.
func (s *BoardService) CommentForEdit(ctx context.Context, courseID, announcementID, commentID, userID uuid.UUID) (*models.Comment, error) {
	if _, err := s.announcements.AnnouncementByID(ctx, courseID, announcementID); err != nil {
		return nil, err
	}
	c, err := s.comments.CommentByID(ctx, announcementID, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, app_errors.ErrCommentNotFound
	}
	return c, nil
}

func (s *BoardService) EditComment(ctx context.Context, courseID, announcementID, commentID, userID uuid.UUID, content string) (*models.Comment, error) {
	c, err := s.CommentForEdit(ctx, courseID, announcementID, commentID, userID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, app_errors.NewValidationError("content", "required")
	}
	c.Content = content
	if err := s.comments.UpdateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
