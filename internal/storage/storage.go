package storage

import (
	"context"
	"io"
	"time"

	"SimpleMOOC/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Unique constraint names shared by the schema and the in-memory store.
const (
	UniqueUsername         = "users_username_key"
	UniqueEmail            = "users_email_key"
	UniqueLessonOrder      = "lessons_course_order_key"
	UniqueEnrollmentAccess = "enrollments_user_course_key"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

type TokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type CourseRepository interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CourseByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	SearchCourses(ctx context.Context, term string) ([]models.Course, error)
	UpdateStartDate(ctx context.Context, id uuid.UUID, startDate *time.Time) error
	UpdateCourseImage(ctx context.Context, id uuid.UUID, objectKey string) error
}

type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonByOrder(ctx context.Context, courseID uuid.UUID, order int) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type MaterialRepository interface {
	CreateMaterial(ctx context.Context, material models.Material) (*models.Material, error)
	MaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	MaterialsByLesson(ctx context.Context, lessonID uuid.UUID) ([]models.Material, error)
}

type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	EnrollmentByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	EnrollmentByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id uuid.UUID, status models.EnrollmentStatus) error
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
	EnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)
	ApprovedEnrollees(ctx context.Context, courseID uuid.UUID) ([]models.User, error)
}

type AnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	AnnouncementByID(ctx context.Context, courseID, id uuid.UUID) (*models.Announcement, error)
	AnnouncementsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Announcement, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, announcementID, id uuid.UUID) (*models.Comment, error)
	CommentsByAnnouncement(ctx context.Context, announcementID uuid.UUID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
}

// Repositories is the set of stores the services are built from.
type Repositories struct {
	Users         UserRepository
	Tokens        TokenRepository
	Courses       CourseRepository
	Lessons       LessonRepository
	Materials     MaterialRepository
	Enrollments   EnrollmentRepository
	Announcements AnnouncementRepository
	Comments      CommentRepository
}

type ImageStorage interface {
	UploadImage(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	ImageURL(ctx context.Context, objectKey string) (string, error)
	DeleteImage(ctx context.Context, objectKey string) error
}

type ResourceStorage interface {
	UploadResource(ctx context.Context, courseName, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	ResourceURL(ctx context.Context, objectKey string) (string, error)
}

type CourseIndex interface {
	Index(ctx context.Context, course models.Course) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}
