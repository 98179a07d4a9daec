package repository

import (
	"context"
	"strings"
	"time"

	"uniwiz/internal/models"

	"gorm.io/gorm"
)

// JobFilter is the parameter object behind the public job listing.
// Zero values mean "no constraint"; by default only active jobs whose
// deadline has not passed are returned.
type JobFilter struct {
	CategoryID     uint
	PublisherID    uint
	Search         string
	JobType        string
	Statuses       []models.JobStatus
	IncludeExpired bool
	Limit          int
	Offset         int
	Now            time.Time
}

// Scopes translates the filter into gorm scopes.
func (f JobFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	scopes := []func(*gorm.DB) *gorm.DB{}

	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []models.JobStatus{models.JobStatusActive}
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where("jobs.status IN ?", statuses)
	})

	if !f.IncludeExpired {
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		now = now.UTC()
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.application_deadline IS NULL OR jobs.application_deadline >= ?", now)
		})
	}
	if f.CategoryID != 0 {
		id := f.CategoryID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.category_id = ?", id)
		})
	}
	if f.PublisherID != 0 {
		id := f.PublisherID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.publisher_id = ?", id)
		})
	}
	if jobType := strings.TrimSpace(f.JobType); jobType != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.job_type = ?", jobType)
		})
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ? OR LOWER(jobs.location) LIKE ?", like, like, like)
		})
	}
	return scopes
}

// JobRepository defines the interface for job data operations
type JobRepository interface {
	WithTx(tx *gorm.DB) JobRepository
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error)
	ListByPublisher(ctx context.Context, publisherID uint) ([]models.Job, error)
	ApplicantCounts(ctx context.Context, jobIDs []uint) (map[uint]int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.JobStatus) error
	CountByStatus(ctx context.Context) (map[models.JobStatus]int64, error)
	Categories(ctx context.Context) ([]models.JobCategory, error)
	CreateCategory(ctx context.Context, category *models.JobCategory) error
}

// jobRepository implements JobRepository
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) WithTx(tx *gorm.DB) JobRepository {
	return &jobRepository{db: tx}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Publisher").
		First(&job, id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Job, error) {
	out := make(map[uint]models.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var jobs []models.Job
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, err
	}
	for _, j := range jobs {
		out[j.ID] = j
	}
	return out, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{}).Scopes(filter.Scopes()...)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := q.Preload("Category").
		Preload("Publisher").
		Order("jobs.created_at DESC, jobs.id DESC").
		Scopes(paginate(filter.Limit, filter.Offset)).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepository) ListByPublisher(ctx context.Context, publisherID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("publisher_id = ?", publisherID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) ApplicantCounts(ctx context.Context, jobIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		JobID uint
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.JobID] = row.Total
	}
	return out, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uint, status models.JobStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *jobRepository) CountByStatus(ctx context.Context) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[models.JobStatus]int64{}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *jobRepository) Categories(ctx context.Context) ([]models.JobCategory, error) {
	var cats []models.JobCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *jobRepository) CreateCategory(ctx context.Context, category *models.JobCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}
