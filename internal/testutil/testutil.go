// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"uniwiz/internal/database"
	"uniwiz/internal/middleware"
	"uniwiz/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "Sup3r-secret"

var seq atomic.Uint64

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         database.NewGormLogger(middleware.Logger).LogMode(logger.Error),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// CreateUser inserts a user with the given role. Options run before insert.
func CreateUser(t testing.TB, db *gorm.DB, role models.UserRole, opts ...func(*models.User)) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	n := seq.Add(1)
	u := &models.User{
		Email:     fmt.Sprintf("%s%d@uniwiz.test", role, n),
		Password:  string(hash),
		Role:      role,
		Status:    models.UserStatusActive,
		FirstName: "User",
		LastName:  fmt.Sprintf("%d", n),
	}
	if role == models.RolePublisher {
		u.CompanyName = fmt.Sprintf("Company %d", n)
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)

	switch role {
	case models.RoleStudent:
		require.NoError(t, db.Create(&models.StudentProfile{UserID: u.ID, University: "University of Moratuwa"}).Error)
	case models.RolePublisher:
		require.NoError(t, db.Create(&models.PublisherProfile{UserID: u.ID}).Error)
	}
	return u
}

// Blocked marks a fixture user as blocked.
func Blocked(u *models.User) {
	u.Status = models.UserStatusBlocked
}

// CreateJob inserts an active job owned by publisherID.
func CreateJob(t testing.TB, db *gorm.DB, publisherID uint, opts ...func(*models.Job)) *models.Job {
	t.Helper()

	j := &models.Job{
		PublisherID:  publisherID,
		Title:        fmt.Sprintf("Job %d", seq.Add(1)),
		Description:  "Part-time work",
		JobType:      "part-time",
		PaymentRange: "1000-2000",
		Vacancies:    1,
		Status:       models.JobStatusActive,
	}
	for _, opt := range opts {
		opt(j)
	}
	require.NoError(t, db.Create(j).Error)
	return j
}

// WithDeadline sets the application deadline relative to now.
func WithDeadline(d time.Duration) func(*models.Job) {
	return func(j *models.Job) {
		t := time.Now().Add(d)
		j.ApplicationDeadline = &t
	}
}

// WithStatus sets the stored job status.
func WithStatus(s models.JobStatus) func(*models.Job) {
	return func(j *models.Job) { j.Status = s }
}
