// Package respond holds the response shapes shared by the controllers: flash
// messages, see-other redirects and error bodies.
package respond

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Flash struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Flash { return Flash{Level: LevelSuccess, Message: msg} }
func Info(msg string) Flash    { return Flash{Level: LevelInfo, Message: msg} }
func Error(msg string) Flash   { return Flash{Level: LevelError, Message: msg} }

type RedirectBody struct {
	Redirect string  `json:"redirect"`
	Messages []Flash `json:"messages"`
}

// Redirect answers 303 See Other with a Location header and the flash messages in the body.
func Redirect(c *gin.Context, location string, messages ...Flash) {
	if messages == nil {
		messages = []Flash{}
	}
	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, RedirectBody{Redirect: location, Messages: messages})
}

// AbortRedirect is Redirect for middleware.
func AbortRedirect(c *gin.Context, location string, messages ...Flash) {
	Redirect(c, location, messages...)
	c.Abort()
}

const DashboardPath = "/v1/account/"

func CoursePath(course models.Course) string {
	return fmt.Sprintf("/v1/courses/%s/%s/", course.ID, course.Slug)
}

func LessonsPath(course models.Course) string {
	return CoursePath(course) + "lessons/"
}

func LessonPath(course models.Course, lessonID uuid.UUID) string {
	return fmt.Sprintf("%s%s/", LessonsPath(course), lessonID)
}

func AnnouncementPath(course models.Course, announcementID uuid.UUID) string {
	return fmt.Sprintf("%sannouncements/%s/", CoursePath(course), announcementID)
}

// Validation writes the 422 body for a ValidationError.
func Validation(c *gin.Context, err *app_errors.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Fields})
}

// BindErrors turns a gin binding error into a field map keyed by the json name.
func BindErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = tagMessage(fe)
	}
	return fields
}

func Bind(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": BindErrors(err)})
}

// jsonName converts a Go field name to snake_case, keeping acronyms together:
// FullName is full_name, URL is url, ImageURL is image_url.
func jsonName(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "invalid email address"
	case "max":
		return "too long"
	case "url", "http_url":
		return "enter a valid URL"
	case "min":
		return "too short"
	default:
		return "invalid value"
	}
}

// Status maps service errors onto HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrLessonNotFound),
		errors.Is(err, app_errors.ErrMaterialNotFound),
		errors.Is(err, app_errors.ErrEnrollmentNotFound),
		errors.Is(err, app_errors.ErrAnnouncementNotFound),
		errors.Is(err, app_errors.ErrCommentNotFound),
		errors.Is(err, app_errors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, app_errors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app_errors.ErrUserExists),
		errors.Is(err, app_errors.ErrIncorrectPassword),
		errors.Is(err, app_errors.ErrNotImage),
		errors.Is(err, app_errors.ErrFileSize):
		return http.StatusBadRequest
	case errors.Is(err, app_errors.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err with the status from Status. Internal errors are not echoed.
func Fail(c *gin.Context, err error) {
	var verr *app_errors.ValidationError
	if errors.As(err, &verr) {
		Validation(c, verr)
		return
	}
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ParamID parses the uuid path parameter name. A malformed id is answered as not found.
func ParamID(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}
