package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SimpleMOOC/internal/config"
	"SimpleMOOC/internal/delivery/http/controllers/respond"
	"SimpleMOOC/internal/mail"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	app    *App
	outbox *mail.Outbox
}

func testConfig(autoApprove bool) *config.Config {
	return &config.Config{
		Env:     "test",
		Storage: config.Storage{Driver: config.StorageMemory},
		JWT: config.JWT{
			SecretKey:  "test-secret",
			Issuer:     "test",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
		Mail: config.Mail{
			Backend:      config.MailConsole,
			ContactEmail: "contact@example.com",
			Site:         "SimpleMOOC",
		},
		Enrollment: config.Enrollment{AutoApprove: &autoApprove},
	}
}

func newHarness(t *testing.T, autoApprove bool) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	outbox := mail.NewOutbox()
	a, err := New(context.Background(), testConfig(autoApprove), logger.Discard(), Options{Transport: outbox})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &harness{t: t, app: a, outbox: outbox}
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)
	return w
}

func (h *harness) user(username string, staff bool) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "secret123",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	if staff {
		u, err := h.app.Repos.Users.UserByName(context.Background(), username)
		require.NoError(h.t, err)
		u.IsStaff = true
		require.NoError(h.t, h.app.Repos.Users.UpdateUser(context.Background(), *u))
	}

	w = h.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &tokens))
	return tokens.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string, level respond.Level, message string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, location, w.Header().Get("Location"))
	body := decode[respond.RedirectBody](t, w)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, level, body.Messages[0].Level)
	assert.Equal(t, message, body.Messages[0].Message)
}

type courseFixture struct {
	course   models.Course
	released models.Lesson
	upcoming models.Lesson
}

func (h *harness) course(staff string) courseFixture {
	h.t.Helper()
	w := h.do(http.MethodPost, "/v1/admin/courses/", staff, map[string]string{
		"name": "Go Fundamentals", "description": "Learn Go",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[struct {
		Course models.Course `json:"course"`
	}](h.t, w).Course

	today := models.DateOf(time.Now())
	lesson := func(order int, release time.Time) models.Lesson {
		w := h.do(http.MethodPost, fmt.Sprintf("/v1/admin/courses/%s/lessons/", course.ID), staff, map[string]interface{}{
			"name": fmt.Sprintf("Lesson %d", order), "order": order, "release_date": release.Format("2006-01-02"),
		})
		require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
		return decode[struct {
			Lesson models.Lesson `json:"lesson"`
		}](h.t, w).Lesson
	}
	return courseFixture{
		course:   course,
		released: lesson(1, today.AddDate(0, 0, -1)),
		upcoming: lesson(2, today.AddDate(0, 0, 1)),
	}
}

func coursePath(c models.Course) string {
	return respond.CoursePath(c)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, true)
	w := h.do(http.MethodGet, "/v1/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}](t, w)
	assert.Equal(t, "Available", body.Status)
	assert.Equal(t, map[string]string{
		"storage":        "memory",
		"object_storage": "disabled",
		"search":         "store",
		"rate_limit":     "disabled",
		"mail":           "custom",
		"notifications":  "sync",
	}, body.Components)
}

func TestAdminRoutesNeedStaff(t *testing.T) {
	h := newHarness(t, true)
	student := h.user("ana", false)

	w := h.do(http.MethodPost, "/v1/admin/courses/", student, map[string]string{"name": "Go"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPost, "/v1/admin/courses/", "", map[string]string{"name": "Go"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourseCatalogIsPublic(t *testing.T) {
	h := newHarness(t, true)
	f := h.course(h.user("staff", true))

	w := h.do(http.MethodGet, "/v1/courses/?q=fundamentals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Courses []models.CoursePreview `json:"courses"`
	}](t, w)
	require.Len(t, list.Courses, 1)
	assert.Equal(t, "go-fundamentals", list.Courses[0].Slug)

	w = h.do(http.MethodGet, coursePath(f.course), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, fmt.Sprintf("/v1/courses/%s/wrong-slug/", f.course.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/v1/courses/not-a-uuid/go/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactForm(t *testing.T) {
	h := newHarness(t, true)
	f := h.course(h.user("staff", true))

	w := h.do(http.MethodPost, coursePath(f.course), "", map[string]string{"name": "Ana", "email": "not-an-email"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, w).Errors
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "message")
	assert.Empty(t, h.outbox.Messages())

	w = h.do(http.MethodPost, coursePath(f.course), "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "message": "When does it start?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Your questions were sent successfully")

	msgs := h.outbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"contact@example.com"}, msgs[0].To)
	assert.Equal(t, "[Go Fundamentals] Contact", msgs[0].Subject)
}

func TestEnrollmentGatedContent(t *testing.T) {
	h := newHarness(t, true)
	f := h.course(h.user("staff", true))
	student := h.user("ana", false)
	lessons := respond.LessonsPath(f.course)

	w := h.do(http.MethodGet, lessons, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodGet, lessons, student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelError, "You do not have permission to access this course")

	w = h.do(http.MethodPost, coursePath(f.course)+"enroll/", student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelSuccess, "You have been enrolled in the course Go Fundamentals successfully")

	w = h.do(http.MethodPost, coursePath(f.course)+"enroll/", student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelInfo, "You are already enrolled in the course Go Fundamentals")

	w = h.do(http.MethodGet, lessons, student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[struct {
		Lessons []models.Lesson `json:"lessons"`
	}](t, w)
	require.Len(t, list.Lessons, 1)
	assert.Equal(t, f.released.ID, list.Lessons[0].ID)

	w = h.do(http.MethodGet, respond.LessonPath(f.course, f.released.ID), student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, respond.LessonPath(f.course, f.upcoming.ID), student, nil)
	assertRedirect(t, w, lessons, respond.LevelError, "This lesson is not available")

	w = h.do(http.MethodGet, respond.DashboardPath, student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := decode[struct {
		Enrollments []models.EnrollmentWithCourse `json:"enrollments"`
	}](t, w)
	require.Len(t, dashboard.Enrollments, 1)
	assert.Equal(t, f.course.ID, dashboard.Enrollments[0].Course.ID)
}

func TestStaffBypassesGate(t *testing.T) {
	h := newHarness(t, true)
	staff := h.user("staff", true)
	f := h.course(staff)

	w := h.do(http.MethodGet, respond.LessonsPath(f.course), staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Lessons []models.Lesson `json:"lessons"`
	}](t, w)
	assert.Len(t, list.Lessons, 2)

	w = h.do(http.MethodGet, respond.LessonPath(f.course, f.upcoming.ID), staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPendingEnrollmentIsDenied(t *testing.T) {
	h := newHarness(t, false)
	staff := h.user("staff", true)
	f := h.course(staff)
	student := h.user("ana", false)

	w := h.do(http.MethodPost, coursePath(f.course)+"enroll/", student, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = h.do(http.MethodGet, respond.LessonsPath(f.course), student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelError, "Your enrollment is pending")

	u, err := h.app.Repos.Users.UserByName(context.Background(), "ana")
	require.NoError(t, err)
	e, err := h.app.Repos.Enrollments.EnrollmentByUserCourse(context.Background(), u.ID, f.course.ID)
	require.NoError(t, err)

	w = h.do(http.MethodPatch, fmt.Sprintf("/v1/admin/enrollments/%s/approve", e.ID), staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodGet, respond.LessonsPath(f.course), student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodPatch, fmt.Sprintf("/v1/admin/enrollments/%s/cancel", e.ID), staff, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, respond.LessonsPath(f.course), student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelError, "Your enrollment is pending")
}

func TestWithdraw(t *testing.T) {
	h := newHarness(t, true)
	f := h.course(h.user("staff", true))
	student := h.user("ana", false)

	h.do(http.MethodPost, coursePath(f.course)+"enroll/", student, nil)

	w := h.do(http.MethodGet, coursePath(f.course)+"withdraw/", student, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodPost, coursePath(f.course)+"withdraw/", student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelSuccess, "Your enrollment in the course Go Fundamentals was cancelled")

	w = h.do(http.MethodGet, respond.LessonsPath(f.course), student, nil)
	assertRedirect(t, w, respond.DashboardPath, respond.LevelError, "You do not have permission to access this course")
}

func (h *harness) postMaterial(staff string, lessonID uuid.UUID, name, url string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(h.t, mw.WriteField("name", name))
	require.NoError(h.t, mw.WriteField("url", url))
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/admin/lessons/%s/materials/", lessonID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+staff)
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)
	return w
}

func (h *harness) material(staff string, lessonID uuid.UUID, name, url string) models.Material {
	h.t.Helper()
	w := h.postMaterial(staff, lessonID, name, url)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		Material models.Material `json:"material"`
	}](h.t, w).Material
}

func TestMaterialURLMustBeHTTP(t *testing.T) {
	h := newHarness(t, true)
	staff := h.user("staff", true)
	f := h.course(staff)

	for _, bad := range []string{"javascript:alert(1)", "garbage"} {
		w := h.postMaterial(staff, f.released.ID, "Video", bad)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, bad)
		errs := decode[struct {
			Errors map[string]string `json:"errors"`
		}](t, w).Errors
		assert.Equal(t, "enter a valid URL", errs["url"], bad)
	}

	w := h.postMaterial(staff, f.released.ID, "", "https://video.example.com/embed/1")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
}

func TestMaterialRedirects(t *testing.T) {
	h := newHarness(t, true)
	staff := h.user("staff", true)
	f := h.course(staff)
	student := h.user("ana", false)
	h.do(http.MethodPost, coursePath(f.course)+"enroll/", student, nil)

	video := h.material(staff, f.released.ID, "Intro", "https://video.example.com/embed/1")
	slides := h.material(staff, f.released.ID, "Slides", "")
	later := h.material(staff, f.upcoming.ID, "Later", "https://video.example.com/embed/2")

	materialPath := func(id uuid.UUID) string {
		return fmt.Sprintf("%smaterials/%s/", coursePath(f.course), id)
	}

	w := h.do(http.MethodGet, materialPath(video.ID), student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, materialPath(slides.ID), student, nil)
	assertRedirect(t, w, respond.LessonPath(f.course, f.released.ID), respond.LevelError,
		"This material has no video available, try the resources below")

	w = h.do(http.MethodGet, materialPath(later.ID), student, nil)
	assertRedirect(t, w, respond.LessonsPath(f.course), respond.LevelError, "This material is not available")
}

func TestAnnouncementsAndComments(t *testing.T) {
	h := newHarness(t, true)
	staff := h.user("staff", true)
	f := h.course(staff)
	ana := h.user("ana", false)
	bia := h.user("bia", false)
	h.user("caio", false)
	h.do(http.MethodPost, coursePath(f.course)+"enroll/", ana, nil)
	h.do(http.MethodPost, coursePath(f.course)+"enroll/", bia, nil)

	w := h.do(http.MethodPost, fmt.Sprintf("/v1/admin/courses/%s/announcements/", f.course.ID), staff, map[string]string{
		"title": "Week 1", "content": "Read chapter 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	announcement := decode[struct {
		Announcement models.Announcement `json:"announcement"`
	}](t, w).Announcement

	msgs := h.outbox.Messages()
	require.Len(t, msgs, 2, "only the approved enrollees are mailed")
	for _, m := range msgs {
		assert.Equal(t, "[Go Fundamentals] Week 1", m.Subject)
	}
	h.outbox.Reset()

	w = h.do(http.MethodPut, fmt.Sprintf("/v1/admin/courses/%s/announcements/%s", f.course.ID, announcement.ID), staff,
		map[string]string{"title": "Week 1", "content": "Read chapters 1 and 2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, h.outbox.Messages(), "updates are not mailed")

	w = h.do(http.MethodGet, coursePath(f.course)+"announcements/", ana, nil)
	require.Equal(t, http.StatusOK, w.Code)

	detailPath := respond.AnnouncementPath(f.course, announcement.ID)
	w = h.do(http.MethodPost, detailPath, ana, map[string]string{"content": ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(http.MethodPost, detailPath, ana, map[string]string{"content": "Is chapter 2 optional?"})
	assertRedirect(t, w, detailPath, respond.LevelSuccess, "Your comment was sent")

	w = h.do(http.MethodGet, detailPath, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Announcement models.AnnouncementDetail `json:"announcement"`
	}](t, w).Announcement
	require.Len(t, detail.Comments, 1)
	comment := detail.Comments[0]

	editPath := fmt.Sprintf("%scomments/%s/edit/", detailPath, comment.ID)
	w = h.do(http.MethodGet, editPath, bia, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = h.do(http.MethodPost, editPath, bia, map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, editPath, ana, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodPost, editPath, ana, map[string]string{"content": "Is chapter 2 required?"})
	assertRedirect(t, w, detailPath, respond.LevelSuccess, "Your comment was edited")
}

func TestLessonOrderMustBeUnique(t *testing.T) {
	h := newHarness(t, true)
	staff := h.user("staff", true)
	f := h.course(staff)

	w := h.do(http.MethodPost, fmt.Sprintf("/v1/admin/courses/%s/lessons/", f.course.ID), staff, map[string]interface{}{
		"name": "Duplicate", "order": 1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"order"`)

	w = h.do(http.MethodPost, fmt.Sprintf("/v1/admin/courses/%s/sync-start-date", f.course.ID), staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	course := decode[struct {
		Course models.Course `json:"course"`
	}](t, w).Course
	require.NotNil(t, course.StartDate)
	assert.True(t, course.StartDate.Equal(*f.released.ReleaseDate))
}

func TestAccountEndpoints(t *testing.T) {
	h := newHarness(t, true)
	token := h.user("ana", false)

	w := h.do(http.MethodPut, respond.DashboardPath, token, map[string]string{
		"username": "ana", "email": "ana.lima@example.com", "full_name": "Ana Lima",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPut, "/v1/account/password", token, map[string]string{
		"old_password": "wrong", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(http.MethodPut, "/v1/account/password", token, map[string]string{
		"old_password": "secret123", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"username": "ana", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}
