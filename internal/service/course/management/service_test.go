package management

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage/memory"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndex struct {
	indexed []models.Course
}

func (r *recordingIndex) Index(_ context.Context, c models.Course) error {
	r.indexed = append(r.indexed, c)
	return nil
}

type fakeObjects struct {
	uploads []string
	deleted []string
}

func (f *fakeObjects) UploadImage(_ context.Context, courseID uuid.UUID, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	key := "courses/images/" + courseID.String() + ".png"
	f.uploads = append(f.uploads, key)
	return key, nil
}

func (f *fakeObjects) ImageURL(_ context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjects) DeleteImage(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) UploadResource(_ context.Context, courseName, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	key := "courses/lessons/materials/" + courseName + "/" + filename
	f.uploads = append(f.uploads, key)
	return key, nil
}

func setup(t *testing.T, withObjects bool) (*ManagementService, *memory.DB, *recordingIndex, *fakeObjects) {
	t.Helper()
	db := memory.New()
	index := &recordingIndex{}
	objects := &fakeObjects{}
	deps := Deps{Courses: db, Lessons: db, Materials: db, Index: index}
	if withObjects {
		deps.Images = objects
		deps.Resources = objects
	}
	return NewManagementService(logger.Discard(), deps), db, index, objects
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-fundamentals", Slugify("Go Fundamentals"))
	assert.Equal(t, "intro-to-c-part-2", Slugify("  Intro to C++: part 2!  "))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "programacao-em-python", Slugify("Programação em Python"))
	assert.Equal(t, "introducao-a-logica", Slugify("Introdução à Lógica"))

	nonLatin := Slugify("日本語")
	assert.NotEmpty(t, nonLatin)
	assert.Regexp(t, `^[a-z0-9]+(-[a-z0-9]+)*$`, nonLatin)

	long := Slugify("a very long course name that keeps going and going past the limit")
	assert.LessOrEqual(t, len(long), models.CourseSlugMaxLen)
	assert.NotEqual(t, "-", long[len(long)-1:])
}

func TestCreateCourseWithAccentedName(t *testing.T) {
	svc, _, _, _ := setup(t, false)

	course, err := svc.CreateCourse(context.Background(), models.Course{Name: "Programação em Python"})
	require.NoError(t, err)
	assert.Equal(t, "programacao-em-python", course.Slug)
}

func TestCreateCourseDerivesSlugAndIndexes(t *testing.T) {
	svc, db, index, _ := setup(t, false)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, models.Course{Name: "Go Fundamentals", Description: "Learn Go"})
	require.NoError(t, err)
	assert.Equal(t, "go-fundamentals", course.Slug)
	assert.NotEqual(t, uuid.Nil, course.ID)

	stored, err := db.CourseByIDAndSlug(ctx, course.ID, "go-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", stored.Description)

	require.Len(t, index.indexed, 1)
	assert.Equal(t, course.ID, index.indexed[0].ID)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _, _, _ := setup(t, false)

	_, err := svc.CreateCourse(context.Background(), models.Course{Name: " ", Slug: "Not A Slug"})
	var verr *app_errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "slug")
}

func newCourse(t *testing.T, svc *ManagementService) *models.Course {
	t.Helper()
	c, err := svc.CreateCourse(context.Background(), models.Course{Name: "Go"})
	require.NoError(t, err)
	return c
}

func TestCreateLessonOrderRules(t *testing.T) {
	svc, _, _, _ := setup(t, false)
	ctx := context.Background()
	course := newCourse(t, svc)

	_, err := svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "Zero", Order: 0})
	var verr *app_errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "order")

	_, err = svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "One", Order: 1})
	require.NoError(t, err)

	_, err = svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "Also one", Order: 1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "order")

	_, err = svc.CreateLesson(ctx, models.Lesson{CourseID: uuid.New(), Name: "Orphan", Order: 1})
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestSyncStartDateCopiesFirstLesson(t *testing.T) {
	svc, db, _, _ := setup(t, false)
	ctx := context.Background()
	course := newCourse(t, svc)

	_, err := svc.SyncStartDate(ctx, course.ID)
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)

	_, err = svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "Two", Order: 2, ReleaseDate: models.Date(2024, time.May, 8)})
	require.NoError(t, err)
	_, err = svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "One", Order: 1, ReleaseDate: models.Date(2024, time.May, 1)})
	require.NoError(t, err)

	updated, err := svc.SyncStartDate(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.StartDate)
	assert.True(t, updated.StartDate.Equal(*models.Date(2024, time.May, 1)))

	stored, err := db.CourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StartDate)
	assert.True(t, stored.StartDate.Equal(*models.Date(2024, time.May, 1)))
}

func TestUploadCourseImage(t *testing.T) {
	ctx := context.Background()

	disabled, _, _, _ := setup(t, false)
	course := newCourse(t, disabled)
	_, err := disabled.UploadCourseImage(ctx, course.ID, "logo.png", bytes.NewReader([]byte("png")), 3, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrStorageDisabled)

	svc, db, _, objects := setup(t, true)
	course = newCourse(t, svc)

	_, err = svc.UploadCourseImage(ctx, course.ID, "notes.txt", bytes.NewReader([]byte("txt")), 3, "text/plain")
	assert.ErrorIs(t, err, app_errors.ErrNotImage)
	_, err = svc.UploadCourseImage(ctx, course.ID, "huge.png", bytes.NewReader(nil), maxImageSizeBytes+1, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrFileSize)

	url, err := svc.UploadCourseImage(ctx, course.ID, "logo.png", bytes.NewReader([]byte("png")), 3, "")
	require.NoError(t, err)
	assert.Contains(t, url, course.ID.String())

	stored, err := db.CourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ImageObjectKey)

	_, err = svc.UploadCourseImage(ctx, course.ID, "logo2.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, []string{stored.ImageObjectKey}, objects.deleted, "the previous image is removed")
}

func TestCreateMaterialWithResource(t *testing.T) {
	svc, _, _, objects := setup(t, true)
	ctx := context.Background()
	course := newCourse(t, svc)
	lesson, err := svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "One", Order: 1})
	require.NoError(t, err)

	m, err := svc.CreateMaterial(ctx, models.Material{LessonID: lesson.ID, Name: "Slides"}, &Upload{
		Filename: "slides.pdf", Reader: bytes.NewReader([]byte("%PDF")), Size: 4, ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "courses/lessons/materials/Go/slides.pdf", m.ResourceObjectKey)
	assert.False(t, m.IsEmbedded())
	assert.Len(t, objects.uploads, 1)

	_, err = svc.CreateMaterial(ctx, models.Material{LessonID: lesson.ID}, nil)
	var verr *app_errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = svc.CreateMaterial(ctx, models.Material{LessonID: uuid.New(), Name: "x"}, nil)
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)
}

func TestCreateMaterialURL(t *testing.T) {
	svc, _, _, _ := setup(t, false)
	ctx := context.Background()
	course := newCourse(t, svc)
	lesson, err := svc.CreateLesson(ctx, models.Lesson{CourseID: course.ID, Name: "One", Order: 1})
	require.NoError(t, err)

	for _, bad := range []string{"javascript:alert(1)", "not a url", "ftp://files.example.com/v.mp4"} {
		_, err := svc.CreateMaterial(ctx, models.Material{LessonID: lesson.ID, Name: "Video", URL: bad}, nil)
		var verr *app_errors.ValidationError
		require.ErrorAs(t, err, &verr, bad)
		assert.Contains(t, verr.Fields, "url", bad)
	}

	m, err := svc.CreateMaterial(ctx, models.Material{LessonID: lesson.ID, Name: "Video", URL: " https://www.youtube.com/embed/abc "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/abc", m.URL)
	assert.True(t, m.IsEmbedded())
}
