package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// CompanyReview is a student's rating of a publisher. A student reviews a
// publisher at most once.
type CompanyReview struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_review_student_publisher,priority:1" json:"student_id"`
	Student     *User     `gorm:"foreignKey:StudentID" json:"-"`
	PublisherID uint      `gorm:"not null;uniqueIndex:idx_review_student_publisher,priority:2;index" json:"publisher_id"`
	Rating      int       `gorm:"not null;check:chk_company_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText  string    `gorm:"type:text" json:"review_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	StudentName string `gorm:"-" json:"student_name,omitempty"`
}

// ReviewSummary aggregates the ratings of one publisher.
type ReviewSummary struct {
	PublisherID   uint            `json:"publisher_id"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
	Reviews       []CompanyReview `json:"reviews"`
}
