package models

import (
	"strings"
	"time"
)

// UserRole identifies which side of the marketplace an account belongs to.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RolePublisher UserRole = "publisher"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User represents an account on the platform.
type User struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Email            string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string            `gorm:"size:255;not null" json:"-"`
	Role             UserRole          `gorm:"type:varchar(20);not null;index" json:"role"`
	Status           UserStatus        `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IsVerified       bool              `gorm:"not null;default:false" json:"is_verified"`
	FirstName        string            `gorm:"size:100" json:"first_name"`
	LastName         string            `gorm:"size:100" json:"last_name"`
	CompanyName      string            `gorm:"size:255" json:"company_name,omitempty"`
	ProfileImageURL  string            `gorm:"size:512" json:"profile_image_url,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	StudentProfile   *StudentProfile   `gorm:"foreignKey:UserID" json:"student_profile,omitempty"`
	PublisherProfile *PublisherProfile `gorm:"foreignKey:UserID" json:"publisher_profile,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// DisplayName is the company name for publishers and the full name otherwise.
func (u *User) DisplayName() string {
	if u.Role == RolePublisher && u.CompanyName != "" {
		return u.CompanyName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserSummary is the public view of a user embedded in other payloads.
type UserSummary struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Role            UserRole `json:"role"`
	CompanyName     string   `json:"company_name,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.DisplayName(),
		Role:            u.Role,
		CompanyName:     u.CompanyName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
