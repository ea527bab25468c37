package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/mail"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
)

const searchSize = 50

type courseRepo interface {
	CourseStore
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CourseByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Course, error)
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type materialRepo interface {
	MaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	MaterialsByLesson(ctx context.Context, lessonID uuid.UUID) ([]models.Material, error)
}

type searchRepo interface {
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}

type imageRepo interface {
	ImageURL(ctx context.Context, objectKey string) (string, error)
}

type resourceRepo interface {
	ResourceURL(ctx context.Context, objectKey string) (string, error)
}

type mailer interface {
	Send(ctx context.Context, template, subject string, data interface{}, recipients ...string) error
}

type Deps struct {
	Courses   courseRepo
	Lessons   lessonRepo
	Materials materialRepo

	// Search, Images and Resources are optional.
	Search    searchRepo
	Images    imageRepo
	Resources resourceRepo
	Mailer    mailer
}

type CatalogService struct {
	log          logger.Log
	courses      courseRepo
	lessons      lessonRepo
	materials    materialRepo
	search       searchRepo
	images       imageRepo
	resources    resourceRepo
	mailer       mailer
	contactEmail string
	now          func() time.Time
}

func NewCatalogService(log logger.Log, d Deps, contactEmail string, now func() time.Time) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		log:          log,
		courses:      d.Courses,
		lessons:      d.Lessons,
		materials:    d.Materials,
		search:       d.Search,
		images:       d.Images,
		resources:    d.Resources,
		mailer:       d.Mailer,
		contactEmail: contactEmail,
		now:          now,
	}
}

func (s *CatalogService) imageURL(ctx context.Context, c models.Course) string {
	if c.ImageObjectKey == "" || s.images == nil {
		return ""
	}
	u, err := s.images.ImageURL(ctx, c.ImageObjectKey)
	if err != nil {
		s.log.ErrorErr("failed to get image URL", err, "course_id", c.ID)
		return ""
	}
	return u
}

func (s *CatalogService) previews(ctx context.Context, courses []models.Course) []models.CoursePreview {
	previews := make([]models.CoursePreview, 0, len(courses))
	for _, c := range courses {
		previews = append(previews, c.Preview(s.imageURL(ctx, c)))
	}
	return previews
}

// List returns every course, or the courses matching query.
func (s *CatalogService) List(ctx context.Context, query string) ([]models.CoursePreview, error) {
	if query == "" || s.search == nil {
		courses, err := Search(ctx, s.courses, query)
		if err != nil {
			return nil, err
		}
		return s.previews(ctx, courses), nil
	}

	ids, err := s.search.Search(ctx, query, searchSize)
	if err != nil {
		s.log.ErrorErr("index search failed, falling back to store", err)
		courses, err := Search(ctx, s.courses, query)
		if err != nil {
			return nil, err
		}
		return s.previews(ctx, courses), nil
	}

	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		c, err := s.courses.CourseByID(ctx, id)
		if err != nil {
			if !errors.Is(err, app_errors.ErrCourseNotFound) {
				s.log.ErrorErr("failed to load indexed course", err, "course_id", id)
			}
			continue
		}
		courses = append(courses, *c)
	}
	return s.previews(ctx, courses), nil
}

func (s *CatalogService) Detail(ctx context.Context, id uuid.UUID, slug string) (*models.CourseDetail, error) {
	course, err := s.courses.CourseByIDAndSlug(ctx, id, slug)
	if err != nil {
		return nil, err
	}
	return &models.CourseDetail{
		CoursePreview: course.Preview(s.imageURL(ctx, *course)),
		About:         course.About,
	}, nil
}

type ContactForm struct {
	Name    string
	Email   string
	Message string
}

type contactData struct {
	Course  string
	Name    string
	Email   string
	Message string
}

func (s *CatalogService) Contact(ctx context.Context, course models.Course, form ContactForm) error {
	data := contactData{Course: course.Name, Name: form.Name, Email: form.Email, Message: form.Message}
	subject := fmt.Sprintf("[%s] Contact", course.Name)
	if err := s.mailer.Send(ctx, mail.TemplateContact, subject, data, s.contactEmail); err != nil {
		return fmt.Errorf("contact mail: %w", err)
	}
	return nil
}

// Lessons returns every lesson to staff and only released lessons to everyone else.
func (s *CatalogService) Lessons(ctx context.Context, course models.Course, staff bool) ([]models.Lesson, error) {
	lessons, err := s.lessons.LessonsByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if staff {
		models.SortLessons(lessons)
		return lessons, nil
	}
	return models.ReleasedLessons(lessons, s.now()), nil
}

func (s *CatalogService) courseLesson(ctx context.Context, course models.Course, lessonID uuid.UUID) (*models.Lesson, error) {
	lesson, err := s.lessons.LessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != course.ID {
		return nil, app_errors.ErrLessonNotFound
	}
	return lesson, nil
}

func (s *CatalogService) LessonDetail(ctx context.Context, course models.Course, lessonID uuid.UUID, staff bool) (*models.LessonDetail, error) {
	lesson, err := s.courseLesson(ctx, course, lessonID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !staff && !lesson.IsAvailable(now) {
		return nil, app_errors.ErrLessonUnavailable
	}

	materials, err := s.materials.MaterialsByLesson(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	all, err := s.lessons.LessonsByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	prev, next := models.Neighbours(models.ReleasedLessons(all, now), *lesson)

	return &models.LessonDetail{
		Lesson:    *lesson,
		Materials: materials,
		Previous:  prev,
		Next:      next,
	}, nil
}

// MaterialDetail returns ErrNoEmbeddedVideo together with a non-nil detail when the
// material has no video, so callers can send the user to the lesson instead.
func (s *CatalogService) MaterialDetail(ctx context.Context, course models.Course, materialID uuid.UUID, staff bool) (*models.MaterialDetail, error) {
	material, err := s.materials.MaterialByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.courseLesson(ctx, course, material.LessonID)
	if err != nil {
		if errors.Is(err, app_errors.ErrLessonNotFound) {
			return nil, app_errors.ErrMaterialNotFound
		}
		return nil, err
	}
	if !staff && !lesson.IsAvailable(s.now()) {
		return nil, app_errors.ErrMaterialUnavailable
	}

	detail := &models.MaterialDetail{Material: *material, Lesson: *lesson}
	if material.ResourceObjectKey != "" && s.resources != nil {
		u, err := s.resources.ResourceURL(ctx, material.ResourceObjectKey)
		if err != nil {
			s.log.ErrorErr("failed to get resource URL", err, "material_id", material.ID)
		}
		detail.ResourceURL = u
	}
	if !material.IsEmbedded() {
		return detail, app_errors.ErrNoEmbeddedVideo
	}
	return detail, nil
}
