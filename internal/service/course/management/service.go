package management

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxImageSizeBytes = 5 << 20

var validate = validator.New()

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateStartDate(ctx context.Context, id uuid.UUID, startDate *time.Time) error
	UpdateCourseImage(ctx context.Context, id uuid.UUID, objectKey string) error
}

type lessonRepo interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonByOrder(ctx context.Context, courseID uuid.UUID, order int) (*models.Lesson, error)
}

type materialRepo interface {
	CreateMaterial(ctx context.Context, material models.Material) (*models.Material, error)
}

type indexRepo interface {
	Index(ctx context.Context, course models.Course) error
}

type imageRepo interface {
	UploadImage(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	ImageURL(ctx context.Context, objectKey string) (string, error)
	DeleteImage(ctx context.Context, objectKey string) error
}

type resourceRepo interface {
	UploadResource(ctx context.Context, courseName, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
}

type Deps struct {
	Courses   courseRepo
	Lessons   lessonRepo
	Materials materialRepo

	// Index, Images and Resources are optional.
	Index     indexRepo
	Images    imageRepo
	Resources resourceRepo
}

type ManagementService struct {
	log       logger.Log
	courses   courseRepo
	lessons   lessonRepo
	materials materialRepo
	index     indexRepo
	images    imageRepo
	resources resourceRepo
}

func NewManagementService(log logger.Log, d Deps) *ManagementService {
	return &ManagementService{
		log:       log,
		courses:   d.Courses,
		lessons:   d.Lessons,
		materials: d.Materials,
		index:     d.Index,
		images:    d.Images,
		resources: d.Resources,
	}
}

func (s *ManagementService) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	course.Name = strings.TrimSpace(course.Name)
	if course.Slug == "" {
		course.Slug = Slugify(course.Name)
	}

	verr := &app_errors.ValidationError{}
	switch {
	case course.Name == "":
		verr.Add("name", "required")
	case len([]rune(course.Name)) > models.CourseNameMaxLen:
		verr.Add("name", "too long")
	}
	switch {
	case course.Slug == "":
		verr.Add("slug", "required")
	case len(course.Slug) > models.CourseSlugMaxLen || course.Slug != Slugify(course.Slug):
		verr.Add("slug", "must be a lowercase URL-safe identifier")
	}
	if len([]rune(course.Description)) > models.CourseDescriptionMaxLen {
		verr.Add("description", "too long")
	}
	if !verr.Empty() {
		return nil, verr
	}

	if _, err := s.courses.NewCourse(ctx, &course); err != nil {
		return nil, err
	}
	if s.index != nil {
		if err := s.index.Index(ctx, course); err != nil {
			s.log.ErrorErr("error indexing course", err, "course_id", course.ID)
		}
	}
	return &course, nil
}

func (s *ManagementService) UploadCourseImage(
	ctx context.Context,
	courseID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	if s.images == nil {
		return "", app_errors.ErrStorageDisabled
	}
	course, err := s.courses.CourseByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	if size > maxImageSizeBytes {
		return "", app_errors.ErrFileSize
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}

	if course.ImageObjectKey != "" {
		if err := s.images.DeleteImage(ctx, course.ImageObjectKey); err != nil {
			s.log.ErrorErr("failed to delete previous image", err, "course_id", courseID)
		}
	}
	objectKey, err := s.images.UploadImage(ctx, courseID, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.courses.UpdateCourseImage(ctx, courseID, objectKey); err != nil {
		return "", err
	}
	return s.images.ImageURL(ctx, objectKey)
}

// CreateLesson rejects an order below one or one already used in the course.
func (s *ManagementService) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if _, err := s.courses.CourseByID(ctx, lesson.CourseID); err != nil {
		return nil, err
	}

	lesson.Name = strings.TrimSpace(lesson.Name)
	verr := &app_errors.ValidationError{}
	if lesson.Name == "" {
		verr.Add("name", "required")
	}
	if lesson.Order < 1 {
		verr.Add("order", "must be a positive integer")
	} else if _, err := s.lessons.LessonByOrder(ctx, lesson.CourseID, lesson.Order); err == nil {
		verr.Add("order", app_errors.ErrDuplicateLessonOrder.Error())
	} else if !errors.Is(err, app_errors.ErrLessonNotFound) {
		return nil, err
	}
	if !verr.Empty() {
		return nil, verr
	}

	created, err := s.lessons.CreateLesson(ctx, lesson)
	if err != nil {
		if errors.Is(err, app_errors.ErrDuplicateLessonOrder) {
			return nil, app_errors.NewValidationError("order", err.Error())
		}
		return nil, err
	}
	return created, nil
}

type Upload struct {
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// CreateMaterial stores material, uploading resource first when one is given.
func (s *ManagementService) CreateMaterial(ctx context.Context, material models.Material, resource *Upload) (*models.Material, error) {
	lesson, err := s.lessons.LessonByID(ctx, material.LessonID)
	if err != nil {
		return nil, err
	}
	material.Name = strings.TrimSpace(material.Name)
	material.URL = strings.TrimSpace(material.URL)
	verr := &app_errors.ValidationError{}
	if material.Name == "" {
		verr.Add("name", "required")
	}
	// embedded as a video source, so only http(s) is accepted
	if material.URL != "" && validate.Var(material.URL, "http_url") != nil {
		verr.Add("url", "enter a valid URL")
	}
	if !verr.Empty() {
		return nil, verr
	}

	if resource != nil {
		if s.resources == nil {
			return nil, app_errors.ErrStorageDisabled
		}
		course, err := s.courses.CourseByID(ctx, lesson.CourseID)
		if err != nil {
			return nil, err
		}
		key, err := s.resources.UploadResource(ctx, course.Name, resource.Filename, resource.Reader, resource.Size, resource.ContentType)
		if err != nil {
			return nil, err
		}
		material.ResourceObjectKey = key
	}
	return s.materials.CreateMaterial(ctx, material)
}

// SyncStartDate copies the release date of the course's first lesson onto the course.
func (s *ManagementService) SyncStartDate(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	course, err := s.courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	first, err := s.lessons.LessonByOrder(ctx, courseID, 1)
	if err != nil {
		return nil, err
	}
	if err := s.courses.UpdateStartDate(ctx, courseID, first.ReleaseDate); err != nil {
		return nil, err
	}
	course.StartDate = first.ReleaseDate
	return course, nil
}
