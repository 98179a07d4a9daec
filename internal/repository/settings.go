package repository

import (
	"context"
	"errors"

	"uniwiz/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository defines the interface for the site settings singleton
type SettingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	SaveFooterLinks(ctx context.Context, links datatypes.JSON, updatedBy uint) error
}

// settingsRepository implements SettingsRepository
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings row, or nil when it has never been written.
func (r *settingsRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	var s models.SiteSettings
	err := r.db.WithContext(ctx).First(&s, models.SiteSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) SaveFooterLinks(ctx context.Context, links datatypes.JSON, updatedBy uint) error {
	row := models.SiteSettings{
		ID:          models.SiteSettingsID,
		FooterLinks: links,
		UpdatedBy:   &updatedBy,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"footer_links", "updated_by", "updated_at"}),
	}).Create(&row).Error
}
