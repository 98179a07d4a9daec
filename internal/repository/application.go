package repository

import (
	"context"
	"errors"
	"strings"

	"uniwiz/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

// ApplicationRepository defines the interface for job application data operations
type ApplicationRepository interface {
	WithTx(tx *gorm.DB) ApplicationRepository
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id uint) (*models.JobApplication, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.JobApplication, error)
	ListByJob(ctx context.Context, jobID uint) ([]models.JobApplication, error)
	MarkPendingViewed(ctx context.Context, jobID uint) (int64, error)
	TransitionStatus(ctx context.Context, id uint, from []models.ApplicationStatus, to models.ApplicationStatus) (int64, error)
}

// applicationRepository implements ApplicationRepository
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) WithTx(tx *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: tx}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	err := r.db.WithContext(ctx).Create(app).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := r.db.WithContext(ctx).Preload("Job").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Publisher").
		Preload("Job.Category").
		Where("student_id = ?", studentID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID uint) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Where("job_id = ?", jobID).
		Order("applied_at ASC, id ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) MarkPendingViewed(ctx context.Context, jobID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("job_id = ? AND status = ?", jobID, models.ApplicationPending).
		Update("status", models.ApplicationViewed)
	return res.RowsAffected, res.Error
}

// TransitionStatus updates the status only while it is still one of from,
// so concurrent decisions cannot overwrite each other.
func (r *applicationRepository) TransitionStatus(ctx context.Context, id uint, from []models.ApplicationStatus, to models.ApplicationStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// isUniqueViolation recognizes duplicate-key errors across the supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
