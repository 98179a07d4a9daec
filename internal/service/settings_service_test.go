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

func TestDefaultFooter(t *testing.T) {
	groups, err := DefaultFooter()
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	for _, g := range groups {
		assert.NotEmpty(t, g.Title)
		assert.NotEmpty(t, g.Links)
	}
}

func TestSettingsService_FooterFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	groups, err := f.siteSettings.Footer(context.Background())
	require.NoError(t, err)
	defaults, err := DefaultFooter()
	require.NoError(t, err)
	assert.Equal(t, defaults, groups)
}

func TestSettingsService_UpdateFooter(t *testing.T) {
	f := newFixture(t)
	withRedis(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, f.db, models.RoleAdmin)

	// Prime the cache with the defaults.
	_, err := f.siteSettings.Footer(ctx)
	require.NoError(t, err)

	raw := []byte(`[{"title":"Help","links":[{"label":"FAQ","url":"/faq"},{"label":"Mail","url":"mailto:help@uniwiz.lk"}]}]`)
	saved, err := f.siteSettings.UpdateFooter(ctx, raw, admin.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	groups, err := f.siteSettings.Footer(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, groups)

	row, err := f.settings.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NotNil(t, row.UpdatedBy)
	assert.Equal(t, admin.ID, *row.UpdatedBy)
}

func TestSettingsService_UpdateFooterRejectsInvalidDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := map[string]string{
		"not json":         `{{`,
		"object":           `{"title":"x"}`,
		"missing links":    `[{"title":"x"}]`,
		"empty label":      `[{"title":"x","links":[{"label":"","url":"/a"}]}]`,
		"script url":       `[{"title":"x","links":[{"label":"a","url":"javascript:alert(1)"}]}]`,
		"unknown property": `[{"title":"x","links":[],"color":"red"}]`,
		"link missing url": `[{"title":"x","links":[{"label":"a"}]}]`,
	}
	for name, doc := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := f.siteSettings.UpdateFooter(ctx, []byte(doc), 1)
			assertStatus(t, http.StatusBadRequest, err)
		})
	}

	row, err := f.settings.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, row)
}
