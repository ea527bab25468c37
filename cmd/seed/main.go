// Command seed fills the configured store with a demo course. Its announcement is
// written through the observed store, so enrollees are mailed like on the staff route.
package main

import (
	"context"
	"errors"
	"time"

	"SimpleMOOC/internal/app"
	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/config"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	ctx := context.Background()

	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.FatalErr("failed to build app", err)
	}
	defer a.Close()

	if err := seed(ctx, a, log); err != nil {
		log.FatalErr("seed failed", err)
	}
	log.Info("seed complete")
}

func seed(ctx context.Context, a *app.App, log logger.Log) error {
	s := a.Services

	staff, err := ensureUser(ctx, a, models.User{Username: "staff", Email: "staff@simplemooc.local", Password: "staffpass", FullName: "Course Staff"})
	if err != nil {
		return err
	}
	staff.IsStaff = true
	if err := a.Repos.Users.UpdateUser(ctx, *staff); err != nil {
		return err
	}
	student, err := ensureUser(ctx, a, models.User{Username: "student", Email: "student@simplemooc.local", Password: "studentpass", FullName: "Demo Student"})
	if err != nil {
		return err
	}

	course, err := s.ManagementService.CreateCourse(ctx, models.Course{
		Name:        "Go Fundamentals",
		Description: "Types, interfaces and concurrency",
		About:       "A hands-on introduction to Go.",
	})
	if err != nil {
		return err
	}

	today := models.DateOf(time.Now())
	for i, name := range []string{"Getting started", "Interfaces", "Goroutines"} {
		release := today.AddDate(0, 0, 7*i)
		if _, err := s.ManagementService.CreateLesson(ctx, models.Lesson{
			CourseID:    course.ID,
			Name:        name,
			Order:       i + 1,
			ReleaseDate: &release,
		}); err != nil {
			return err
		}
	}
	if _, err := s.ManagementService.SyncStartDate(ctx, course.ID); err != nil {
		return err
	}

	if _, _, err := s.EnrollmentService.Enroll(ctx, student.ID, course.ID); err != nil {
		return err
	}

	welcome := &models.Announcement{
		ID:       uuid.New(),
		CourseID: course.ID,
		Title:    "Welcome",
		Content:  "The first lesson is open.",
	}
	if err := a.Announcements.CreateAnnouncement(ctx, welcome); err != nil {
		return err
	}
	log.Info("seeded course", "course_id", course.ID, "slug", course.Slug, "staff", staff.ID, "student", student.ID)
	return nil
}

func ensureUser(ctx context.Context, a *app.App, u models.User) (*models.User, error) {
	created, err := a.Services.AuthService.CreateUser(ctx, u)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, app_errors.ErrUserExists) {
		return nil, err
	}
	return a.Repos.Users.UserByName(ctx, u.Username)
}
