package app_errors

import (
	"errors"
	"sort"
	"strings"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrUserInactive = errors.New("user is inactive")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")

var ErrCourseNotFound = errors.New("course not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrMaterialNotFound = errors.New("material not found")
var ErrEnrollmentNotFound = errors.New("enrollment not found")
var ErrAnnouncementNotFound = errors.New("announcement not found")
var ErrCommentNotFound = errors.New("comment not found")

var ErrLessonUnavailable = errors.New("lesson is not available")
var ErrMaterialUnavailable = errors.New("material is not available")
var ErrNoEmbeddedVideo = errors.New("material has no embedded video")

var ErrDuplicateLessonOrder = errors.New("lesson with this order already exists in the course")
var ErrAlreadyEnrolled = errors.New("user is already enrolled in course")

var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
var ErrStorageDisabled = errors.New("object storage is not configured")

var ErrValidation = errors.New("validation failed")

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
