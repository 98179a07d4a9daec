package models

import "time"

// ApplicationStatus is the lifecycle state of a job application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationViewed   ApplicationStatus = "viewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// CanTransition reports whether an application may move from one status to another.
//
//	pending -> viewed      (publisher opens the applicant list)
//	pending|viewed -> accepted|rejected
func CanTransition(from, to ApplicationStatus) bool {
	switch to {
	case ApplicationViewed:
		return from == ApplicationPending
	case ApplicationAccepted, ApplicationRejected:
		return from == ApplicationPending || from == ApplicationViewed
	}
	return false
}

// JobApplication links a student to a job they applied for.
type JobApplication struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	JobID     uint              `gorm:"not null;uniqueIndex:idx_application_student_job,priority:2;index" json:"job_id"`
	Job       *Job              `gorm:"foreignKey:JobID" json:"job,omitempty"`
	StudentID uint              `gorm:"not null;uniqueIndex:idx_application_student_job,priority:1" json:"student_id"`
	Student   *User             `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Proposal  string            `gorm:"type:text" json:"proposal"`
	Status    ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AppliedAt time.Time         `gorm:"autoCreateTime" json:"applied_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
