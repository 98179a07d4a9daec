package bootstrap

import (
	"context"
	"testing"

	"uniwiz/internal/config"
	"uniwiz/internal/models"
	"uniwiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDevAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates once", func(t *testing.T) {
		db := testutil.NewDB(t)
		cfg := &config.Config{
			Env:               "development",
			DevBootstrapAdmin: true,
			DevAdminEmail:     "Root@UniWiz.local",
			DevAdminPassword:  "Adm1n-password",
		}
		require.NoError(t, EnsureDevAdmin(ctx, cfg, db))
		require.NoError(t, EnsureDevAdmin(ctx, cfg, db))

		var admins []models.User
		require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.Equal(t, "root@uniwiz.local", admins[0].Email)
	})

	t.Run("disabled", func(t *testing.T) {
		db := testutil.NewDB(t)
		require.NoError(t, EnsureDevAdmin(ctx, &config.Config{Env: "development"}, db))
		require.NoError(t, EnsureDevAdmin(ctx, &config.Config{
			Env: "production", DevBootstrapAdmin: true, DevAdminPassword: "Adm1n-password",
		}, db))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("requires password", func(t *testing.T) {
		db := testutil.NewDB(t)
		err := EnsureDevAdmin(ctx, &config.Config{Env: "development", DevBootstrapAdmin: true}, db)
		assert.Error(t, err)
	})
}
