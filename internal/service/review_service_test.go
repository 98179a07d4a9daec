package service

import (
	"context"
	"net/http"
	"testing"

	"uniwiz/internal/models"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_UpsertKeepsOneReviewPerPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := testutil.CreateUser(t, f.db, models.RoleStudent)
	s2 := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)

	first, err := f.review.Upsert(ctx, s1.ID, publisher.ID, 2, "meh")
	require.NoError(t, err)
	second, err := f.review.Upsert(ctx, s1.ID, publisher.ID, 5, "<i>great</i> after all")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, "great after all", second.ReviewText)

	_, err = f.review.Upsert(ctx, s2.ID, publisher.ID, 4, "")
	require.NoError(t, err)

	summary, err := f.review.List(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.ReviewCount)
	assert.InDelta(t, 4.5, summary.AverageRating, 0.001)
	require.Len(t, summary.Reviews, 2)
	assert.NotEmpty(t, summary.Reviews[0].StudentName)

	mine, err := f.review.Mine(ctx, s1.ID, publisher.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, mine.ID)
}

func TestReviewService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.review.Upsert(ctx, student.ID, publisher.ID, rating, "x")
		assertStatus(t, http.StatusBadRequest, err)
	}

	_, err := f.review.Upsert(ctx, student.ID, student.ID, 3, "not a company")
	assertStatus(t, http.StatusNotFound, err)

	_, err = f.review.Mine(ctx, student.ID, publisher.ID)
	assertStatus(t, http.StatusNotFound, err)

	summary, err := f.review.List(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.ReviewCount)
	assert.NotNil(t, summary.Reviews)
}

func TestReviewService_ListCacheInvalidatedOnUpsert(t *testing.T) {
	f := newFixture(t)
	mr := withRedis(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, f.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, f.db, models.RolePublisher)

	summary, err := f.review.List(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.ReviewCount)
	assert.True(t, mr.Exists("publisher:"+uintString(publisher.ID)+":reviews"))

	_, err = f.review.Upsert(ctx, student.ID, publisher.ID, 3, "ok")
	require.NoError(t, err)

	summary, err = f.review.List(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ReviewCount)
}
