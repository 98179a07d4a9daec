package models

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus is the lifecycle state of a job posting. JobStatusExpired is
// never stored; it only appears as a display status.
type JobStatus string

const (
	JobStatusDraft   JobStatus = "draft"
	JobStatusActive  JobStatus = "active"
	JobStatusClosed  JobStatus = "closed"
	JobStatusExpired JobStatus = "expired"
)

// Storable reports whether s may be persisted in the status column.
func (s JobStatus) Storable() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusClosed:
		return true
	}
	return false
}

// JobCategory groups jobs for browsing.
type JobCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// Job is a posting published by a publisher.
type Job struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	PublisherID         uint         `gorm:"not null;index" json:"publisher_id"`
	Publisher           *User        `gorm:"foreignKey:PublisherID" json:"-"`
	CategoryID          *uint        `gorm:"index" json:"category_id,omitempty"`
	Category            *JobCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title               string       `gorm:"size:255;not null" json:"title"`
	Description         string       `gorm:"type:text" json:"description"`
	Location            string       `gorm:"size:255" json:"location,omitempty"`
	JobType             string       `gorm:"size:50;index" json:"job_type,omitempty"`
	PaymentRange        string       `gorm:"size:100" json:"payment_range,omitempty"`
	Vacancies           int          `gorm:"not null;default:1" json:"vacancies"`
	ApplicationDeadline *time.Time   `json:"application_deadline,omitempty"`
	Status              JobStatus    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	DisplayStatus    JobStatus    `gorm:"-" json:"display_status"`
	Payment          PaymentRange `gorm:"-" json:"payment"`
	PublisherSummary *UserSummary `gorm:"-" json:"publisher,omitempty"`
}

// DisplayStatusAt derives the status shown to users at instant now.
// An active job whose deadline has passed is reported as expired.
func DisplayStatusAt(status JobStatus, deadline *time.Time, now time.Time) JobStatus {
	if status == JobStatusActive && deadline != nil && deadline.Before(now) {
		return JobStatusExpired
	}
	return status
}

// IsOpenAt reports whether the job accepts applications at now.
func (j *Job) IsOpenAt(now time.Time) bool {
	return DisplayStatusAt(j.Status, j.ApplicationDeadline, now) == JobStatusActive
}

func (j *Job) refreshComputed() {
	j.DisplayStatus = DisplayStatusAt(j.Status, j.ApplicationDeadline, time.Now())
	j.Payment = ParsePaymentRange(j.PaymentRange)
	if j.Publisher != nil {
		s := j.Publisher.Summary()
		j.PublisherSummary = &s
	}
}

// BeforeSave normalizes the deadline to UTC.
func (j *Job) BeforeSave(tx *gorm.DB) error {
	if j.ApplicationDeadline != nil {
		utc := j.ApplicationDeadline.UTC()
		j.ApplicationDeadline = &utc
	}
	return nil
}

// AfterSave keeps the computed fields current on freshly written rows.
func (j *Job) AfterSave(tx *gorm.DB) error {
	j.refreshComputed()
	return nil
}

// AfterFind populates the computed fields on every load.
func (j *Job) AfterFind(tx *gorm.DB) error {
	j.refreshComputed()
	return nil
}

// JobSummary is the compact job view embedded in applications and conversations.
type JobSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	PublisherID   uint      `json:"publisher_id"`
	CompanyName   string    `json:"company_name,omitempty"`
	Status        JobStatus `json:"status"`
	DisplayStatus JobStatus `json:"display_status"`
}

func (j *Job) Summary() JobSummary {
	s := JobSummary{
		ID:            j.ID,
		Title:         j.Title,
		PublisherID:   j.PublisherID,
		Status:        j.Status,
		DisplayStatus: j.DisplayStatus,
	}
	if j.Publisher != nil {
		s.CompanyName = j.Publisher.CompanyName
	}
	return s
}
