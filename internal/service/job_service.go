package service

import (
	"context"
	"time"

	"uniwiz/internal/cache"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"
)

// JobService provides job listing and status business logic.
type JobService struct {
	jobRepo repository.JobRepository
	now     func() time.Time
}

// PublisherJob is a job in the publisher's dashboard.
type PublisherJob struct {
	models.Job
	ApplicantCount int64 `json:"applicant_count"`
}

// NewJobService returns a new JobService.
func NewJobService(jobRepo repository.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo, now: time.Now}
}

// List returns the public job listing. Only active jobs are listed; expired
// ones are included when the filter asks for them.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, int64, error) {
	filter.Statuses = nil
	filter.Limit, filter.Offset = ClampPage(filter.Limit, filter.Offset)
	filter.Now = s.now()
	return s.jobRepo.List(ctx, filter)
}

// Get returns a job. Drafts are only visible to their owner and admins.
func (s *JobService) Get(ctx context.Context, id uint, viewer *Actor) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job", id)
	}
	if job.Status == models.JobStatusDraft {
		if viewer == nil || (!viewer.IsAdmin() && viewer.ID != job.PublisherID) {
			return nil, models.NewNotFoundError("Job", id)
		}
	}
	return job, nil
}

// ListForPublisher returns every job of publisherID with its applicant count.
func (s *JobService) ListForPublisher(ctx context.Context, publisherID uint) ([]PublisherJob, error) {
	jobs, err := s.jobRepo.ListByPublisher(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	counts, err := s.jobRepo.ApplicantCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PublisherJob, len(jobs))
	for i, j := range jobs {
		out[i] = PublisherJob{Job: j, ApplicantCount: counts[j.ID]}
	}
	return out, nil
}

// SetStatus is the admin override of a job's stored status.
func (s *JobService) SetStatus(ctx context.Context, id uint, status models.JobStatus) (*models.Job, error) {
	if !status.Storable() {
		return nil, models.NewValidationError("status must be one of draft, active, closed")
	}
	if err := s.jobRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "Job", id)
	}
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job", id)
	}
	return job, nil
}

// Categories returns the job categories, cached in Redis.
func (s *JobService) Categories(ctx context.Context) ([]models.JobCategory, error) {
	return cache.Aside(ctx, cache.CategoriesKey, cache.CategoriesTTL, s.jobRepo.Categories)
}
