package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettingsID is the primary key of the single settings row.
const SiteSettingsID uint = 1

// SiteSettings is a singleton row of site-wide options.
type SiteSettings struct {
	ID          uint           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FooterLinks datatypes.JSON `json:"footer_links"`
	UpdatedBy   *uint          `json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FooterLink is a single footer entry.
type FooterLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// FooterLinkGroup is a titled column of footer links.
type FooterLinkGroup struct {
	Title string       `json:"title" yaml:"title"`
	Links []FooterLink `json:"links" yaml:"links"`
}
