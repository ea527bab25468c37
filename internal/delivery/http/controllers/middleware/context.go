package middleware

import (
	"SimpleMOOC/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDCtx    = "client_id"
	ClientStaffCtx = "client_staff"
	CourseCtx      = "course"
)

func ClientID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(ClientIDCtx)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func IsStaff(c *gin.Context) bool {
	return c.GetBool(ClientStaffCtx)
}

// Course is the course stored by EnrollmentRequired.
func Course(c *gin.Context) (*models.Course, bool) {
	raw, ok := c.Get(CourseCtx)
	if !ok {
		return nil, false
	}
	course, ok := raw.(*models.Course)
	return course, ok
}
