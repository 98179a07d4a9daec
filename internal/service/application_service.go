package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"uniwiz/internal/models"
	"uniwiz/internal/observability"
	"uniwiz/internal/repository"
	"uniwiz/internal/validation"

	"gorm.io/gorm"
)

const maxProposalLength = 5000

// ApplicationService provides the job application lifecycle.
type ApplicationService struct {
	db      *gorm.DB
	appRepo repository.ApplicationRepository
	jobRepo repository.JobRepository
	now     func() time.Time
}

// Applicant is one row of a publisher's applicant list.
type Applicant struct {
	ID        uint                     `json:"id"`
	Status    models.ApplicationStatus `json:"status"`
	Proposal  string                   `json:"proposal"`
	AppliedAt time.Time                `json:"applied_at"`
	Student   models.UserSummary       `json:"student"`
	Email     string                   `json:"email"`
	Profile   *models.StudentProfile   `json:"profile,omitempty"`
}

// MyApplication is one row of a student's application list.
type MyApplication struct {
	ID        uint                     `json:"id"`
	Status    models.ApplicationStatus `json:"status"`
	Proposal  string                   `json:"proposal"`
	AppliedAt time.Time                `json:"applied_at"`
	Job       *models.JobSummary       `json:"job,omitempty"`
}

// NewApplicationService returns a new ApplicationService.
func NewApplicationService(db *gorm.DB, appRepo repository.ApplicationRepository, jobRepo repository.JobRepository) *ApplicationService {
	return &ApplicationService{db: db, appRepo: appRepo, jobRepo: jobRepo, now: time.Now}
}

// Apply records studentID's application to jobID.
func (s *ApplicationService) Apply(ctx context.Context, studentID, jobID uint, proposal string) (*models.JobApplication, error) {
	proposal = validation.StripTags(proposal)
	if utf8.RuneCountInString(proposal) > maxProposalLength {
		return nil, models.NewValidationError("proposal is too long")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job", jobID)
	}
	if !job.IsOpenAt(s.now()) {
		return nil, models.NewValidationError("This job is not accepting applications")
	}

	app := &models.JobApplication{
		JobID:     jobID,
		StudentID: studentID,
		Proposal:  proposal,
		Status:    models.ApplicationPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("You have already applied for this job")
		}
		return nil, err
	}
	observability.ApplicationsTotal.WithLabelValues(string(models.ApplicationPending)).Inc()
	return app, nil
}

// ListMine returns studentID's applications with the job summary.
func (s *ApplicationService) ListMine(ctx context.Context, studentID uint) ([]MyApplication, error) {
	apps, err := s.appRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make([]MyApplication, len(apps))
	for i, a := range apps {
		out[i] = MyApplication{ID: a.ID, Status: a.Status, Proposal: a.Proposal, AppliedAt: a.AppliedAt}
		if a.Job != nil {
			summary := a.Job.Summary()
			out[i].Job = &summary
		}
	}
	return out, nil
}

// ListApplicants marks the job's pending applications as viewed and returns
// every applicant. Only the job's publisher and admins may call it.
func (s *ApplicationService) ListApplicants(ctx context.Context, jobID uint, actor Actor) ([]Applicant, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job", jobID)
	}
	if !actor.IsAdmin() && job.PublisherID != actor.ID {
		return nil, models.NewForbiddenError("You do not own this job")
	}

	var apps []models.JobApplication
	var viewed int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.appRepo.WithTx(tx)
		var err error
		if viewed, err = repo.MarkPendingViewed(ctx, jobID); err != nil {
			return err
		}
		apps, err = repo.ListByJob(ctx, jobID)
		return err
	})
	if txErr != nil {
		return nil, models.NewInternalError(txErr)
	}
	if viewed > 0 {
		observability.ApplicationsTotal.WithLabelValues(string(models.ApplicationViewed)).Add(float64(viewed))
	}

	out := make([]Applicant, len(apps))
	for i, a := range apps {
		out[i] = Applicant{ID: a.ID, Status: a.Status, Proposal: a.Proposal, AppliedAt: a.AppliedAt}
		if a.Student != nil {
			out[i].Student = a.Student.Summary()
			out[i].Email = a.Student.Email
			out[i].Profile = a.Student.StudentProfile
		}
	}
	return out, nil
}

// UpdateStatus accepts or rejects an application. Only the owning publisher
// may decide, and a decided application cannot change again.
func (s *ApplicationService) UpdateStatus(ctx context.Context, appID uint, status models.ApplicationStatus, actor Actor) (*models.JobApplication, error) {
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return nil, models.NewValidationError("status must be accepted or rejected")
	}

	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, notFound(err, "Application", appID)
	}
	if app.Job == nil || app.Job.PublisherID != actor.ID {
		return nil, models.NewForbiddenError("You do not own this job")
	}
	if !models.CanTransition(app.Status, status) {
		return nil, models.NewConflictError("Application has already been " + string(app.Status))
	}

	rows, err := s.appRepo.TransitionStatus(ctx, appID,
		[]models.ApplicationStatus{models.ApplicationPending, models.ApplicationViewed}, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, models.NewConflictError("Application has already been decided")
	}
	observability.ApplicationsTotal.WithLabelValues(string(status)).Inc()

	return s.appRepo.GetByID(ctx, appID)
}
