package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"uniwiz/internal/middleware"
	"uniwiz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// Migration is a versioned data step applied once after the schema sync.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// DefaultCategories are the job categories every installation starts with.
var DefaultCategories = []string{
	"Web Development",
	"Graphic Design",
	"Content Writing",
	"Data Entry",
	"Marketing",
	"Tutoring",
	"Event Staff",
	"Other",
}

// Migrations lists the data migrations in version order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "seed_job_categories",
			Up: func(tx *gorm.DB) error {
				cats := make([]models.JobCategory, 0, len(DefaultCategories))
				for _, name := range DefaultCategories {
					cats = append(cats, models.JobCategory{Name: name})
				}
				return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error
			},
		},
	}
}

// MigrationStatus describes one migration for the status command.
type MigrationStatus struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrate syncs the schema of every persistent model, then applies pending
// data migrations, each in its own transaction.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(append(PersistentModels(), &MigrationLog{})...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending := Migrations()
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, m := range pending {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		middleware.Logger.Info("migration applied", slog.Int("version", m.Version), slog.String("name", m.Name))
	}

	return nil
}

// Status reports which data migrations have been applied.
func Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	var out []MigrationStatus
	for _, m := range Migrations() {
		st := MigrationStatus{Version: m.Version, Name: m.Name}
		if log, ok := applied[m.Version]; ok {
			at := log.AppliedAt
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// MissingTables lists persistent model tables absent from the database.
func MissingTables(db *gorm.DB) []string {
	var missing []string
	migrator := db.Migrator()
	for _, m := range PersistentModels() {
		if !migrator.HasTable(m) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err == nil {
				missing = append(missing, stmt.Schema.Table)
			}
		}
	}
	return missing
}

func appliedVersions(ctx context.Context, db *gorm.DB) (map[int]MigrationLog, error) {
	out := map[int]MigrationLog{}
	if !db.Migrator().HasTable(&MigrationLog{}) {
		return out, nil
	}

	var logs []MigrationLog
	if err := db.WithContext(ctx).Order("version ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	for _, l := range logs {
		out[l.Version] = l
	}
	return out, nil
}
