package middleware

import (
	"context"
	"errors"
	"net/http"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/service/course/access"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Gate interface {
	Check(ctx context.Context, id access.Identity, courseID uuid.UUID, slug string) (access.Outcome, error)
}

// EnrollmentRequired must run after AuthMiddleware. It reads the :course_id and
// :slug parameters and stores the course under CourseCtx when access is granted.
func EnrollmentRequired(gate Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := ClientID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		courseID, err := uuid.Parse(c.Param("course_id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCourseNotFound.Error()})
			return
		}

		outcome, err := gate.Check(c.Request.Context(), access.Identity{UserID: userID, Staff: IsStaff(c)}, courseID, c.Param("slug"))
		if err != nil {
			if errors.Is(err, app_errors.ErrCourseNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !outcome.Granted {
			respond.AbortRedirect(c, outcome.Redirect, respond.Error(outcome.Reason.Message()))
			return
		}

		c.Set(CourseCtx, outcome.Course)
		c.Next()
	}
}
