package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus int

const (
	EnrollmentPending EnrollmentStatus = iota
	EnrollmentApproved
	EnrollmentCancelled
)

func (s EnrollmentStatus) String() string {
	switch s {
	case EnrollmentPending:
		return "pending"
	case EnrollmentApproved:
		return "approved"
	case EnrollmentCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s EnrollmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EnrollmentStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*s = EnrollmentPending
	case "approved":
		*s = EnrollmentApproved
	case "cancelled":
		*s = EnrollmentCancelled
	default:
		return fmt.Errorf("unknown enrollment status %q", text)
	}
	return nil
}

type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	CourseID  uuid.UUID        `json:"course_id"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (e *Enrollment) Approve() {
	e.Status = EnrollmentApproved
}

func (e *Enrollment) Cancel() {
	e.Status = EnrollmentCancelled
}

func (e Enrollment) IsApproved() bool {
	return e.Status == EnrollmentApproved
}

type EnrollmentWithCourse struct {
	Enrollment Enrollment    `json:"enrollment"`
	Course     CoursePreview `json:"course"`
}
