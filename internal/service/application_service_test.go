package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"uniwiz/internal/models"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationService_Apply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)

	open := testutil.CreateJob(t, f.db, publisher.ID, testutil.WithDeadline(48*time.Hour))
	expired := testutil.CreateJob(t, f.db, publisher.ID, testutil.WithDeadline(-time.Hour))
	closed := testutil.CreateJob(t, f.db, publisher.ID, testutil.WithStatus(models.JobStatusClosed))
	draft := testutil.CreateJob(t, f.db, publisher.ID, testutil.WithStatus(models.JobStatusDraft))

	app, err := f.application.Apply(ctx, student.ID, open.ID, "<p>I am a great fit</p>")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "I am a great fit", app.Proposal)

	_, err = f.application.Apply(ctx, student.ID, open.ID, "again")
	assertStatus(t, http.StatusConflict, err)

	for _, job := range []*models.Job{expired, closed, draft} {
		_, err = f.application.Apply(ctx, student.ID, job.ID, "please")
		assertStatus(t, http.StatusBadRequest, err)
	}

	_, err = f.application.Apply(ctx, student.ID, 9999, "please")
	assertStatus(t, http.StatusNotFound, err)

	mine, err := f.application.ListMine(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Job)
	assert.Equal(t, models.JobStatusActive, mine[0].Job.DisplayStatus)
	assert.Equal(t, publisher.CompanyName, mine[0].Job.CompanyName)
}

func TestApplicationService_ListMineReportsExpiredJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)
	job := testutil.CreateJob(t, f.db, publisher.ID, testutil.WithDeadline(time.Hour))

	_, err := f.application.Apply(ctx, student.ID, job.ID, "")
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute).UTC()
	require.NoError(t, f.db.Model(&models.Job{}).Where("id = ?", job.ID).Update("application_deadline", past).Error)

	mine, err := f.application.ListMine(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.JobStatusActive, mine[0].Job.Status)
	assert.Equal(t, models.JobStatusExpired, mine[0].Job.DisplayStatus)
}

func TestApplicationService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := testutil.CreateUser(t, f.db, models.RoleStudent)
	s2 := testutil.CreateUser(t, f.db, models.RoleStudent)
	owner := testutil.CreateUser(t, f.db, models.RolePublisher)
	other := testutil.CreateUser(t, f.db, models.RolePublisher)
	admin := testutil.CreateUser(t, f.db, models.RoleAdmin)
	job := testutil.CreateJob(t, f.db, owner.ID)

	a1, err := f.application.Apply(ctx, s1.ID, job.ID, "first")
	require.NoError(t, err)
	a2, err := f.application.Apply(ctx, s2.ID, job.ID, "second")
	require.NoError(t, err)

	_, err = f.application.ListApplicants(ctx, job.ID, Actor{ID: other.ID, Role: models.RolePublisher})
	assertStatus(t, http.StatusForbidden, err)

	// A rejected attempt leaves the applications pending.
	stored, err := f.apps.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, stored.Status)

	applicants, err := f.application.ListApplicants(ctx, job.ID, Actor{ID: owner.ID, Role: models.RolePublisher})
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	for _, a := range applicants {
		assert.Equal(t, models.ApplicationViewed, a.Status)
		require.NotNil(t, a.Profile)
		assert.NotEmpty(t, a.Email)
	}

	// Admins may list too.
	_, err = f.application.ListApplicants(ctx, job.ID, Actor{ID: admin.ID, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = f.application.UpdateStatus(ctx, a1.ID, models.ApplicationViewed, Actor{ID: owner.ID, Role: models.RolePublisher})
	assertStatus(t, http.StatusBadRequest, err)

	_, err = f.application.UpdateStatus(ctx, a1.ID, models.ApplicationAccepted, Actor{ID: other.ID, Role: models.RolePublisher})
	assertStatus(t, http.StatusForbidden, err)

	accepted, err := f.application.UpdateStatus(ctx, a1.ID, models.ApplicationAccepted, Actor{ID: owner.ID, Role: models.RolePublisher})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.Status)

	_, err = f.application.UpdateStatus(ctx, a1.ID, models.ApplicationRejected, Actor{ID: owner.ID, Role: models.RolePublisher})
	assertStatus(t, http.StatusConflict, err)

	// Listing again never moves a decided application back to viewed.
	applicants, err = f.application.ListApplicants(ctx, job.ID, Actor{ID: owner.ID, Role: models.RolePublisher})
	require.NoError(t, err)
	statuses := map[uint]models.ApplicationStatus{}
	for _, a := range applicants {
		statuses[a.ID] = a.Status
	}
	assert.Equal(t, models.ApplicationAccepted, statuses[a1.ID])
	assert.Equal(t, models.ApplicationViewed, statuses[a2.ID])

	rejected, err := f.application.UpdateStatus(ctx, a2.ID, models.ApplicationRejected, Actor{ID: owner.ID, Role: models.RolePublisher})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, rejected.Status)

	_, err = f.application.UpdateStatus(ctx, 9999, models.ApplicationRejected, Actor{ID: owner.ID, Role: models.RolePublisher})
	assertStatus(t, http.StatusNotFound, err)
}

func TestApplicationService_DecideDirectlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	owner := testutil.CreateUser(t, f.db, models.RolePublisher)
	job := testutil.CreateJob(t, f.db, owner.ID)

	app, err := f.application.Apply(ctx, student.ID, job.ID, "")
	require.NoError(t, err)

	decided, err := f.application.UpdateStatus(ctx, app.ID, models.ApplicationRejected, Actor{ID: owner.ID, Role: models.RolePublisher})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, decided.Status)
}
