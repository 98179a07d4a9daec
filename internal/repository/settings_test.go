package repository

import (
	"context"
	"testing"

	"uniwiz/internal/models"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSettingsRepository_SingletonUpsert(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SaveFooterLinks(ctx, datatypes.JSON(`[{"title":"A","links":[]}]`), 1))
	require.NoError(t, repo.SaveFooterLinks(ctx, datatypes.JSON(`[{"title":"B","links":[]}]`), 2))

	var count int64
	require.NoError(t, db.Model(&models.SiteSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `[{"title":"B","links":[]}]`, string(got.FooterLinks))
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, uint(2), *got.UpdatedBy)
}
