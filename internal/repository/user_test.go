package repository

import (
	"context"
	"testing"

	"uniwiz/internal/models"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	testutil.CreateUser(t, db, models.RoleStudent, func(u *models.User) { u.FirstName = "Kasun" })
	testutil.CreateUser(t, db, models.RoleStudent, testutil.Blocked)
	testutil.CreateUser(t, db, models.RolePublisher, func(u *models.User) { u.CompanyName = "Kasun Traders" })

	users, total, err := repo.List(ctx, UserFilter{Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, _, err = repo.List(ctx, UserFilter{Status: models.UserStatusBlocked})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, _, err = repo.List(ctx, UserFilter{Query: "kasun"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, _, err = repo.List(ctx, UserFilter{Query: "kasun", Role: models.RolePublisher})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Kasun Traders", users[0].CompanyName)

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.RoleStudent])
	assert.Equal(t, int64(1), counts[models.RolePublisher])
}

func TestUserRepository_StatusAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, models.RoleStudent)

	byEmail, err := repo.GetByEmail(ctx, "  "+u.Email+" ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.NotEmpty(t, byEmail.Password)

	require.NoError(t, repo.UpdateStatus(ctx, u.ID, models.UserStatusBlocked))
	require.NoError(t, repo.SetVerified(ctx, u.ID, true))

	got, err := repo.GetCachedByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBlocked, got.Status)
	assert.True(t, got.IsVerified)

	full, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, full.StudentProfile)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 4242, models.UserStatusActive), gorm.ErrRecordNotFound)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	chat := NewChatRepository(db)
	apps := NewApplicationRepository(db)
	reviews := NewReviewRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	pub := testutil.CreateUser(t, db, models.RolePublisher)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	bystander := testutil.CreateUser(t, db, models.RoleStudent)
	job := testutil.CreateJob(t, db, pub.ID)

	require.NoError(t, apps.Create(ctx, &models.JobApplication{JobID: job.ID, StudentID: student.ID}))
	require.NoError(t, apps.Create(ctx, &models.JobApplication{JobID: job.ID, StudentID: bystander.ID}))
	require.NoError(t, reviews.Upsert(ctx, &models.CompanyReview{StudentID: student.ID, PublisherID: pub.ID, Rating: 3}))

	one, two := models.CanonicalPair(pub.ID, student.ID)
	require.NoError(t, chat.InsertConversationIfAbsent(ctx, &models.Conversation{UserOneID: one, UserTwoID: two}))
	conv, err := chat.FindConversation(ctx, one, two, 0)
	require.NoError(t, err)
	require.NoError(t, chat.CreateMessage(ctx, &models.Message{ConversationID: conv.ID, SenderID: student.ID, ReceiverID: pub.ID, MessageText: "hello"}))
	require.NoError(t, reports.Create(ctx, &models.Report{ReporterID: student.ID, ReportedUserID: pub.ID, ConversationID: conv.ID, Reason: "rude"}))

	var reviewed []uint
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		reviewed, err = users.WithTx(tx).DeleteCascade(ctx, pub.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{pub.ID}, reviewed)

	for _, model := range []interface{}{
		&models.Job{}, &models.JobApplication{}, &models.Conversation{}, &models.Message{},
		&models.CompanyReview{}, &models.Report{}, &models.PublisherProfile{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T should be empty", model)
	}

	_, err = users.GetByID(ctx, pub.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = users.GetByID(ctx, student.ID)
	assert.NoError(t, err)
}
