// Package bootstrap prepares the database and cache before a command runs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uniwiz/internal/cache"
	"uniwiz/internal/config"
	"uniwiz/internal/database"
	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"
	"uniwiz/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate applies pending schema migrations after connecting.
	Migrate bool
}

// InitRuntime connects to DB and Redis, optionally migrates, and ensures the
// development admin when configured.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	if err := EnsureDevAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, r, nil
}

// EnsureDevAdmin creates the development admin account when
// DEV_BOOTSTRAP_ADMIN is set outside production. An existing account with the
// same email is left as is.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !cfg.DevBootstrapAdmin || cfg.IsProduction() {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@uniwiz.local"
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	users := service.NewUserService(db, repository.NewUserRepository(db))
	admin, err := users.CreateAdmin(ctx, service.RegisterInput{
		Email:     email,
		Password:  cfg.DevAdminPassword,
		FirstName: "UniWiz",
		LastName:  "Admin",
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
			middleware.Logger.InfoContext(ctx, "development admin already exists", "email", email)
			return nil
		}
		return err
	}

	middleware.Logger.InfoContext(ctx, "development admin created", "user_id", admin.ID, "email", email)
	return nil
}
