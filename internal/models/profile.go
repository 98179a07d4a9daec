package models

import "time"

// StudentProfile holds the student-only attributes of a user.
type StudentProfile struct {
	UserID       uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	University   string    `gorm:"size:255" json:"university,omitempty"`
	FieldOfStudy string    `gorm:"size:255" json:"field_of_study,omitempty"`
	YearOfStudy  string    `gorm:"size:50" json:"year_of_study,omitempty"`
	Skills       string    `gorm:"type:text" json:"skills,omitempty"`
	CVURL        string    `gorm:"size:512" json:"cv_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublisherProfile holds the company attributes of a publisher.
type PublisherProfile struct {
	UserID       uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	About        string    `gorm:"type:text" json:"about,omitempty"`
	Website      string    `gorm:"size:512" json:"website,omitempty"`
	Address      string    `gorm:"size:512" json:"address,omitempty"`
	FacebookURL  string    `gorm:"size:512" json:"facebook_url,omitempty"`
	LinkedinURL  string    `gorm:"size:512" json:"linkedin_url,omitempty"`
	InstagramURL string    `gorm:"size:512" json:"instagram_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
