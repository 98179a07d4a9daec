package service

import (
	"context"
	"time"
	"unicode/utf8"

	"uniwiz/internal/cache"
	"uniwiz/internal/models"
	"uniwiz/internal/notifications"
	"uniwiz/internal/repository"
	"uniwiz/internal/validation"

	"gorm.io/gorm"
)

const (
	maxReportReason = 2000
	maxAdminNote    = 2000
)

// ModerationService provides reports and admin user management.
type ModerationService struct {
	db         *gorm.DB
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	chatRepo   repository.ChatRepository
	jobRepo    repository.JobRepository
	events     EventPublisher
}

// CreateReportInput is the input for filing a report.
type CreateReportInput struct {
	ConversationID uint
	ReportedUserID uint
	Reason         string
}

// UpdateReportInput is an admin decision on a report.
type UpdateReportInput struct {
	Status    models.ReportStatus
	AdminNote string
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	db *gorm.DB,
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	jobRepo repository.JobRepository,
	events EventPublisher,
) *ModerationService {
	return &ModerationService{
		db:         db,
		reportRepo: reportRepo,
		userRepo:   userRepo,
		chatRepo:   chatRepo,
		jobRepo:    jobRepo,
		events:     publisherOrNoop(events),
	}
}

// CreateReport files a report about the other participant of a conversation.
func (s *ModerationService) CreateReport(ctx context.Context, reporterID uint, in CreateReportInput) (*models.Report, error) {
	reason, err := validation.RequiredText("reason", in.Reason, maxReportReason)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ConversationID == 0 || in.ReportedUserID == 0 {
		return nil, models.NewValidationError("conversation_id and reported_user_id are required")
	}

	conv, err := s.chatRepo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, notFound(err, "Conversation", in.ConversationID)
	}
	if !conv.HasParticipant(reporterID) {
		return nil, models.NewForbiddenError("You are not a participant in this conversation")
	}
	if in.ReportedUserID == reporterID || conv.OtherParticipant(reporterID) != in.ReportedUserID {
		return nil, models.NewValidationError("reported_user_id must be the other participant")
	}

	report := &models.Report{
		ReporterID:     reporterID,
		ReportedUserID: in.ReportedUserID,
		ConversationID: in.ConversationID,
		Reason:         reason,
		Status:         models.ReportPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	cache.InvalidatePendingReports(ctx)

	publishDetached(ctx, notifications.EventReportCreated, func(ctx context.Context) error {
		return s.events.PublishAdminEvent(ctx, notifications.EventReportCreated, map[string]interface{}{
			"report_id":        report.ID,
			"reported_user_id": report.ReportedUserID,
		})
	})
	return report, nil
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *ModerationService) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, models.NewValidationError("status must be one of pending, resolved, dismissed")
	}
	limit, offset = ClampPage(limit, offset)
	return s.reportRepo.List(ctx, status, limit, offset)
}

// UpdateReport records an admin decision on a report.
func (s *ModerationService) UpdateReport(ctx context.Context, id uint, in UpdateReportInput, adminID uint) (*models.Report, error) {
	if !in.Status.Valid() {
		return nil, models.NewValidationError("status must be one of pending, resolved, dismissed")
	}
	note := validation.StripTags(in.AdminNote)
	if utf8.RuneCountInString(note) > maxAdminNote {
		return nil, models.NewValidationError("admin_note is too long")
	}

	fields := map[string]interface{}{
		"status":     in.Status,
		"admin_note": note,
	}
	if in.Status == models.ReportPending {
		fields["resolved_by"] = nil
		fields["resolved_at"] = nil
	} else {
		fields["resolved_by"] = adminID
		fields["resolved_at"] = time.Now().UTC()
	}
	if err := s.reportRepo.Update(ctx, id, fields); err != nil {
		return nil, notFound(err, "Report", id)
	}
	cache.InvalidatePendingReports(ctx)

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Report", id)
	}
	return report, nil
}

// PendingCount returns the number of pending reports, cached briefly for the
// admin sidebar poll.
func (s *ModerationService) PendingCount(ctx context.Context) (int64, error) {
	return cache.Aside(ctx, cache.PendingReportsKey, cache.PendingReportsTTL, func(ctx context.Context) (int64, error) {
		return s.reportRepo.CountByStatus(ctx, models.ReportPending)
	})
}

// ListUsers is the admin user search.
func (s *ModerationService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, models.NewValidationError("invalid role")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, models.NewValidationError("invalid status")
	}
	filter.Limit, filter.Offset = ClampPage(filter.Limit, filter.Offset)
	return s.userRepo.List(ctx, filter)
}

// SetUserStatus blocks or unblocks an account. Admins cannot block themselves
// or other admins.
func (s *ModerationService) SetUserStatus(ctx context.Context, actor Actor, targetID uint, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status must be active or blocked")
	}
	if targetID == actor.ID {
		return nil, models.NewForbiddenError("You cannot change your own status")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFound(err, "User", targetID)
	}
	if target.IsAdmin() && status == models.UserStatusBlocked {
		return nil, models.NewForbiddenError("Administrators cannot be blocked")
	}
	if err := s.userRepo.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, notFound(err, "User", targetID)
	}
	target.Status = status
	return target, nil
}

// SetVerified sets the verification badge of an account.
func (s *ModerationService) SetVerified(ctx context.Context, targetID uint, verified bool) (*models.User, error) {
	if err := s.userRepo.SetVerified(ctx, targetID, verified); err != nil {
		return nil, notFound(err, "User", targetID)
	}
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFound(err, "User", targetID)
	}
	return user, nil
}

// DeleteUser removes an account and everything that references it.
func (s *ModerationService) DeleteUser(ctx context.Context, actor Actor, targetID uint) error {
	if targetID == actor.ID {
		return models.NewForbiddenError("You cannot delete your own account")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return notFound(err, "User", targetID)
	}
	var reviewed []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reviewed, err = s.userRepo.WithTx(tx).DeleteCascade(ctx, targetID)
		return err
	})
	if err != nil {
		return notFound(err, "User", targetID)
	}

	// Drop cached entries only after the commit.
	cache.InvalidateUser(ctx, targetID)
	for _, publisherID := range reviewed {
		cache.InvalidatePublisherReviews(ctx, publisherID)
	}
	cache.InvalidatePendingReports(ctx)
	return nil
}

// Stats returns the admin dashboard counters.
func (s *ModerationService) Stats(ctx context.Context) (*models.AdminStats, error) {
	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.jobRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.reportRepo.CountByStatus(ctx, models.ReportPending)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatRepo.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	return &models.AdminStats{
		UsersByRole:    byRole,
		JobsByStatus:   byStatus,
		PendingReports: pending,
		TotalMessages:  messages,
	}, nil
}
