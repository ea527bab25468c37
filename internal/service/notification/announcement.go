// Package notification tells course members about what happens on the board.
package notification

import (
	"context"
	"fmt"

	"SimpleMOOC/internal/events"
	"SimpleMOOC/internal/mail"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
)

type enrolleeRepo interface {
	ApprovedEnrollees(ctx context.Context, courseID uuid.UUID) ([]models.User, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type mailer interface {
	Send(ctx context.Context, template, subject string, data interface{}, recipients ...string) error
}

type subscriber interface {
	Subscribe(name string, h events.Handler)
}

type AnnouncementNotifier struct {
	log         logger.Log
	enrollments enrolleeRepo
	courses     courseRepo
	mailer      mailer
}

func NewAnnouncementNotifier(log logger.Log, enrollments enrolleeRepo, courses courseRepo, mailer mailer) *AnnouncementNotifier {
	return &AnnouncementNotifier{
		log:         log,
		enrollments: enrollments,
		courses:     courses,
		mailer:      mailer,
	}
}

// Subscribe registers the notifier for AnnouncementCreated.
func (n *AnnouncementNotifier) Subscribe(bus subscriber) {
	bus.Subscribe(events.AnnouncementCreatedEvent, n.Handle)
}

type announcementData struct {
	Course  string
	Title   string
	Content string
}

// Handle mails every approved enrollee separately; a failed delivery is logged
// and does not stop the remaining ones.
func (n *AnnouncementNotifier) Handle(ctx context.Context, e events.Event) error {
	created, ok := e.(events.AnnouncementCreated)
	if !ok {
		return fmt.Errorf("unexpected event %s", e.Name())
	}
	a := created.Announcement

	course, err := n.courses.CourseByID(ctx, a.CourseID)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	users, err := n.enrollments.ApprovedEnrollees(ctx, a.CourseID)
	if err != nil {
		return fmt.Errorf("load enrollees: %w", err)
	}

	subject := fmt.Sprintf("[%s] %s", course.Name, a.Title)
	data := announcementData{Course: course.Name, Title: a.Title, Content: a.Content}
	sent := 0
	for _, u := range users {
		if err := n.mailer.Send(ctx, mail.TemplateAnnouncement, subject, data, u.Email); err != nil {
			n.log.ErrorErr("failed to send announcement", err,
				"announcement_id", a.ID, "user_id", u.ID)
			continue
		}
		sent++
	}
	n.log.Info("announcement sent", "announcement_id", a.ID, "recipients", sent, "enrollees", len(users))
	return nil
}
