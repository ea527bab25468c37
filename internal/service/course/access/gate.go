// Package access decides whether a user may enter the enrollment-gated part of a course.
package access

import (
	"context"
	"errors"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/google/uuid"
)

type Reason int

const (
	ReasonNone Reason = iota
	NotEnrolled
	NotApproved
)

func (r Reason) Message() string {
	switch r {
	case NotEnrolled:
		return "You do not have permission to access this course"
	case NotApproved:
		return "Your enrollment is pending"
	default:
		return ""
	}
}

func (r Reason) String() string {
	switch r {
	case NotEnrolled:
		return "not_enrolled"
	case NotApproved:
		return "not_approved"
	default:
		return "none"
	}
}

type Identity struct {
	UserID uuid.UUID
	Staff  bool
}

// Outcome is either granted, carrying the course, or denied with a reason and
// the path the user is sent to.
type Outcome struct {
	Granted  bool
	Course   *models.Course
	Reason   Reason
	Redirect string
}

type courseRepo interface {
	CourseByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Course, error)
}

type enrollmentRepo interface {
	EnrollmentByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

type Gate struct {
	courses      courseRepo
	enrollments  enrollmentRepo
	deniedTarget string
}

func NewGate(courses courseRepo, enrollments enrollmentRepo, deniedTarget string) *Gate {
	return &Gate{courses: courses, enrollments: enrollments, deniedTarget: deniedTarget}
}

// Check loads the course first, so a missing course is ErrCourseNotFound for everyone.
// Staff always pass.
func (g *Gate) Check(ctx context.Context, id Identity, courseID uuid.UUID, slug string) (Outcome, error) {
	course, err := g.courses.CourseByIDAndSlug(ctx, courseID, slug)
	if err != nil {
		return Outcome{}, err
	}
	if id.Staff {
		return Outcome{Granted: true, Course: course}, nil
	}

	e, err := g.enrollments.EnrollmentByUserCourse(ctx, id.UserID, course.ID)
	switch {
	case errors.Is(err, app_errors.ErrEnrollmentNotFound):
		return g.deny(course, NotEnrolled), nil
	case err != nil:
		return Outcome{}, err
	case !e.IsApproved():
		return g.deny(course, NotApproved), nil
	}
	return Outcome{Granted: true, Course: course}, nil
}

func (g *Gate) deny(course *models.Course, reason Reason) Outcome {
	return Outcome{Course: course, Reason: reason, Redirect: g.deniedTarget}
}
