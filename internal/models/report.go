package models

import "time"

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Report is a user's complaint about another participant of a conversation.
type Report struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ReporterID     uint         `gorm:"not null;index" json:"reporter_id"`
	Reporter       *User        `gorm:"foreignKey:ReporterID" json:"-"`
	ReportedUserID uint         `gorm:"not null;index" json:"reported_user_id"`
	ReportedUser   *User        `gorm:"foreignKey:ReportedUserID" json:"-"`
	ConversationID uint         `gorm:"not null;index" json:"conversation_id"`
	Reason         string       `gorm:"type:text;not null" json:"reason"`
	Status         ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNote      string       `gorm:"type:text" json:"admin_note,omitempty"`
	ResolvedBy     *uint        `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	ReporterSummary     *UserSummary `gorm:"-" json:"reporter,omitempty"`
	ReportedUserSummary *UserSummary `gorm:"-" json:"reported_user,omitempty"`
}

// FillSummaries copies the loaded user relations into their public views.
func (r *Report) FillSummaries() {
	if r.Reporter != nil {
		s := r.Reporter.Summary()
		r.ReporterSummary = &s
	}
	if r.ReportedUser != nil {
		s := r.ReportedUser.Summary()
		r.ReportedUserSummary = &s
	}
}
