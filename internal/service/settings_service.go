package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"uniwiz/internal/cache"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"

	"github.com/qri-io/jsonschema"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed defaults/footer.yml
	defaultFooterYAML []byte

	//go:embed defaults/footer.schema.json
	footerSchemaJSON []byte
)

// DefaultFooter returns the footer served until an admin saves one.
func DefaultFooter() ([]models.FooterLinkGroup, error) {
	var groups []models.FooterLinkGroup
	if err := yaml.Unmarshal(defaultFooterYAML, &groups); err != nil {
		return nil, fmt.Errorf("decode default footer: %w", err)
	}
	return groups, nil
}

// SettingsService provides site settings business logic.
type SettingsService struct {
	repo   repository.SettingsRepository
	schema *jsonschema.Schema
}

// NewSettingsService returns a new SettingsService. It fails if the embedded
// footer schema does not compile.
func NewSettingsService(repo repository.SettingsRepository) (*SettingsService, error) {
	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(footerSchemaJSON, schema); err != nil {
		return nil, fmt.Errorf("compile footer schema: %w", err)
	}
	return &SettingsService{repo: repo, schema: schema}, nil
}

// Footer returns the saved footer links, or the defaults when none are saved.
func (s *SettingsService) Footer(ctx context.Context) ([]models.FooterLinkGroup, error) {
	return cache.Aside(ctx, cache.FooterSettingsKey, cache.FooterSettingsTTL, func(ctx context.Context) ([]models.FooterLinkGroup, error) {
		row, err := s.repo.Get(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil || len(row.FooterLinks) == 0 {
			return DefaultFooter()
		}
		var groups []models.FooterLinkGroup
		if err := json.Unmarshal(row.FooterLinks, &groups); err != nil {
			return nil, fmt.Errorf("decode footer links: %w", err)
		}
		return groups, nil
	})
}

// UpdateFooter validates raw against the footer schema and saves it.
func (s *SettingsService) UpdateFooter(ctx context.Context, raw []byte, adminID uint) ([]models.FooterLinkGroup, error) {
	keyErrs, err := s.schema.ValidateBytes(ctx, raw)
	if err != nil {
		return nil, models.NewValidationError("footer links must be a JSON array")
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Error())
		}
		return nil, models.NewValidationError("invalid footer links: " + strings.Join(msgs, "; "))
	}

	var groups []models.FooterLinkGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, models.NewValidationError("footer links must be a JSON array")
	}
	// Re-encode so the stored document carries only known fields.
	normalized, err := json.Marshal(groups)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveFooterLinks(ctx, normalized, adminID); err != nil {
		return nil, err
	}
	cache.InvalidateFooterSettings(ctx)
	return groups, nil
}
