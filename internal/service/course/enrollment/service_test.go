package enrollment

import (
	"context"
	"sync"
	"testing"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/models"
	"SimpleMOOC/internal/storage/memory"
	"SimpleMOOC/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     *memory.DB
	svc    *EnrollmentService
	userID uuid.UUID
	course models.Course
}

func setup(t *testing.T, policy ApprovalPolicy) fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()

	user, err := db.CreateUser(ctx, models.User{Username: "ana", Email: "ana@example.com", IsActive: true})
	require.NoError(t, err)
	course := models.Course{Name: "Go", Slug: "go"}
	_, err = db.NewCourse(ctx, &course)
	require.NoError(t, err)

	return fixture{
		db:     db,
		svc:    NewEnrollmentService(logger.Discard(), db, db, nil, policy),
		userID: user.ID,
		course: course,
	}
}

func TestEnrollCreatesApprovedEnrollment(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	e, created, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, e.IsApproved())

	enrolled, err := f.svc.IsEnrolled(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestEnrollIsIdempotent(t *testing.T) {
	f := setup(t, AutoApprove{})
	ctx := context.Background()

	first, created, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	list, err := f.db.EnrollmentsByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConcurrentEnrollProducesOneRow(t *testing.T) {
	f := setup(t, AutoApprove{})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
			assert.NoError(t, err)
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	list, err := f.db.EnrollmentsByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, createdCount)
}

func TestManualApprovalLeavesEnrollmentPending(t *testing.T) {
	f := setup(t, ManualApproval{})
	ctx := context.Background()

	e, created, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.EnrollmentPending, e.Status)

	enrolled, err := f.svc.IsEnrolled(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	approved, err := f.svc.Approve(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved())

	enrolled, err = f.svc.IsEnrolled(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestCancelRevokesAccess(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	e, _, err := f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCancelled, cancelled.Status)

	stored, err := f.svc.Enrollment(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCancelled, stored.Status)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := setup(t, nil)

	_, _, err := f.svc.Enroll(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestWithdraw(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	err := f.svc.Withdraw(ctx, f.userID, f.course.ID)
	assert.ErrorIs(t, err, app_errors.ErrEnrollmentNotFound)

	_, _, err = f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Withdraw(ctx, f.userID, f.course.ID))

	_, err = f.svc.Enrollment(ctx, f.userID, f.course.ID)
	assert.ErrorIs(t, err, app_errors.ErrEnrollmentNotFound)
}

func TestDashboardListsEnrolledCourses(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	other := models.Course{Name: "Rust", Slug: "rust"}
	_, err := f.db.NewCourse(ctx, &other)
	require.NoError(t, err)

	_, _, err = f.svc.Enroll(ctx, f.userID, f.course.ID)
	require.NoError(t, err)

	dashboard, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, dashboard, 1)
	assert.Equal(t, "Go", dashboard[0].Course.Name)
	assert.Equal(t, models.EnrollmentApproved, dashboard[0].Enrollment.Status)
}
