package http

import (
	"time"

	"SimpleMOOC/internal/delivery/http/controllers"
	"SimpleMOOC/internal/delivery/http/controllers/account"
	"SimpleMOOC/internal/delivery/http/controllers/auth"
	"SimpleMOOC/internal/delivery/http/controllers/board"
	"SimpleMOOC/internal/delivery/http/controllers/course"
	"SimpleMOOC/internal/delivery/http/controllers/lesson"
	"SimpleMOOC/internal/delivery/http/controllers/middleware"
	"SimpleMOOC/internal/service"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Limits struct {
	Window  time.Duration
	Login   int
	Contact int
	Enroll  int
}

type Options struct {
	AllowOrigins []string
	Limiter      *middleware.RateLimiter
	Limits       Limits

	// Components names the backend behind each concern, reported by /v1/status.
	Components map[string]string
}

func InitRoutes(l logger.Log, u service.Collection, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	limiter := opts.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(l, nil)
	}

	statusController := controllers.NewStatusHandler(opts.Components)
	authController := auth.NewAuthHandler(l, u.AuthService)
	accountController := account.NewAccountHandler(l, u.AuthService, u.EnrollmentService)
	catalogController := course.NewCatalogHandler(l, u.CatalogService, u.EnrollmentService)
	courseManagement := course.NewManagementHandler(l, u.ManagementService, u.EnrollmentService)
	contentController := lesson.NewContentHandler(l, u.CatalogService)
	lessonManagement := lesson.NewManagementHandler(l, u.ManagementService)
	boardController := board.NewBoardHandler(l, u.BoardService)

	authRequired := middleware.NewAuthMiddlewareProvider(l, u.AuthService).AuthMiddleware
	enrollmentRequired := middleware.EnrollmentRequired(u.Gate)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authController.Register)
			authGroup.POST("/login", limiter.Limit("login", opts.Limits.Login, opts.Limits.Window), authController.Login)
			authGroup.POST("/refresh", authController.Refresh)
		}

		accountGroup := v1.Group("/account", authRequired)
		{
			accountGroup.GET("/", accountController.Dashboard)
			accountGroup.PUT("/", accountController.Edit)
			accountGroup.PUT("/password", accountController.Password)
		}

		v1.GET("/courses/", catalogController.List)

		courseGroup := v1.Group("/courses/:course_id/:slug")
		{
			courseGroup.GET("/", catalogController.Detail)
			courseGroup.POST("/", limiter.Limit("contact", opts.Limits.Contact, opts.Limits.Window), catalogController.Contact)
			courseGroup.POST("/enroll/", authRequired, limiter.Limit("enroll", opts.Limits.Enroll, opts.Limits.Window), catalogController.Enroll)

			gated := courseGroup.Group("", authRequired, enrollmentRequired)
			{
				gated.GET("/lessons/", contentController.Lessons)
				gated.GET("/lessons/:lesson_id/", contentController.Lesson)
				gated.GET("/materials/:material_id/", contentController.Material)

				gated.GET("/withdraw/", catalogController.WithdrawConfirm)
				gated.POST("/withdraw/", catalogController.Withdraw)

				gated.GET("/announcements/", boardController.Announcements)
				gated.GET("/announcements/:announcement_id/", boardController.Announcement)
				gated.POST("/announcements/:announcement_id/", boardController.AddComment)
				gated.GET("/announcements/:announcement_id/comments/:comment_id/edit/", boardController.EditCommentForm)
				gated.POST("/announcements/:announcement_id/comments/:comment_id/edit/", boardController.EditComment)
			}
		}

		admin := v1.Group("/admin", authRequired, middleware.RequireStaff)
		{
			admin.POST("/courses/", courseManagement.CreateCourse)
			admin.PUT("/courses/:course_id/image", courseManagement.UploadCourseImage)
			admin.POST("/courses/:course_id/sync-start-date", courseManagement.SyncStartDate)
			admin.POST("/courses/:course_id/lessons/", lessonManagement.CreateLesson)
			admin.POST("/courses/:course_id/announcements/", boardController.CreateAnnouncement)
			admin.PUT("/courses/:course_id/announcements/:announcement_id", boardController.UpdateAnnouncement)
			admin.POST("/lessons/:lesson_id/materials/", lessonManagement.CreateMaterial)
			admin.PATCH("/enrollments/:enrollment_id/approve", courseManagement.ApproveEnrollment)
			admin.PATCH("/enrollments/:enrollment_id/cancel", courseManagement.CancelEnrollment)
		}
	}
	return r
}
