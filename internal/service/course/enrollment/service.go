package enrollment

import (
	"context"
	"errors"
	"fmt"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
)

type enrollmentRepo interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	EnrollmentByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	EnrollmentByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id uuid.UUID, status models.EnrollmentStatus) error
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
	EnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type imageRepo interface {
	ImageURL(ctx context.Context, objectKey string) (string, error)
}

type EnrollmentService struct {
	log         logger.Log
	enrollments enrollmentRepo
	courses     courseRepo
	images      imageRepo
	policy      ApprovalPolicy
}

// NewEnrollmentService uses AutoApprove when policy is nil. images may be nil.
func NewEnrollmentService(log logger.Log, enrollments enrollmentRepo, courses courseRepo, images imageRepo, policy ApprovalPolicy) *EnrollmentService {
	if policy == nil {
		policy = AutoApprove{}
	}
	return &EnrollmentService{
		log:         log,
		enrollments: enrollments,
		courses:     courses,
		images:      images,
		policy:      policy,
	}
}

// Enroll returns the user's enrollment in the course, creating it when absent.
// created reports whether this call inserted the row.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, bool, error) {
	if _, err := s.courses.CourseByID(ctx, courseID); err != nil {
		return nil, false, err
	}

	existing, err := s.enrollments.EnrollmentByUserCourse(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, app_errors.ErrEnrollmentNotFound) {
		return nil, false, err
	}

	e := &models.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentPending,
	}
	s.policy.Decide(e)

	if err := s.enrollments.CreateEnrollment(ctx, e); err != nil {
		if errors.Is(err, app_errors.ErrAlreadyEnrolled) {
			// lost a race with a concurrent request for the same pair
			existing, err := s.enrollments.EnrollmentByUserCourse(ctx, userID, courseID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create enrollment: %w", err)
	}

	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID, "status", e.Status.String())
	return e, true, nil
}

func (s *EnrollmentService) setStatus(ctx context.Context, id uuid.UUID, change func(*models.Enrollment)) (*models.Enrollment, error) {
	e, err := s.enrollments.EnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	change(e)
	if err := s.enrollments.UpdateEnrollmentStatus(ctx, e.ID, e.Status); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) Approve(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	return s.setStatus(ctx, id, (*models.Enrollment).Approve)
}

func (s *EnrollmentService) Cancel(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	return s.setStatus(ctx, id, (*models.Enrollment).Cancel)
}

// Withdraw removes the user's enrollment in the course.
func (s *EnrollmentService) Withdraw(ctx context.Context, userID, courseID uuid.UUID) error {
	e, err := s.enrollments.EnrollmentByUserCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if err := s.enrollments.DeleteEnrollment(ctx, e.ID); err != nil {
		return err
	}
	s.log.Info("enrollment withdrawn", "user_id", userID, "course_id", courseID)
	return nil
}

// IsEnrolled only reports approved enrollments.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	e, err := s.enrollments.EnrollmentByUserCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrEnrollmentNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.IsApproved(), nil
}

// Enrollment returns the user's enrollment in the course, whatever its status.
func (s *EnrollmentService) Enrollment(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	return s.enrollments.EnrollmentByUserCourse(ctx, userID, courseID)
}

func (s *EnrollmentService) Dashboard(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentWithCourse, error) {
	enrollments, err := s.enrollments.EnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.EnrollmentWithCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.courses.CourseByID(ctx, e.CourseID)
		if err != nil {
			if errors.Is(err, app_errors.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, models.EnrollmentWithCourse{
			Enrollment: e,
			Course:     course.Preview(s.imageURL(ctx, *course)),
		})
	}
	return result, nil
}

func (s *EnrollmentService) imageURL(ctx context.Context, c models.Course) string {
	if s.images == nil || c.ImageObjectKey == "" {
		return ""
	}
	u, err := s.images.ImageURL(ctx, c.ImageObjectKey)
	if err != nil {
		s.log.ErrorErr("failed to get image URL", err, "course_id", c.ID)
		return ""
	}
	return u
}
