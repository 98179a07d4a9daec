package repository

import (
	"context"
	"time"

	"uniwiz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository defines the interface for company review data operations
type ReviewRepository interface {
	ListByPublisher(ctx context.Context, publisherID uint) ([]models.CompanyReview, error)
	Summary(ctx context.Context, publisherID uint) (float64, int64, error)
	GetByStudentAndPublisher(ctx context.Context, studentID, publisherID uint) (*models.CompanyReview, error)
	Upsert(ctx context.Context, review *models.CompanyReview) error
}

// reviewRepository implements ReviewRepository
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListByPublisher(ctx context.Context, publisherID uint) ([]models.CompanyReview, error) {
	var reviews []models.CompanyReview
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("publisher_id = ?", publisherID).
		Order("updated_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].Student != nil {
			reviews[i].StudentName = reviews[i].Student.DisplayName()
		}
	}
	return reviews, nil
}

func (r *reviewRepository) Summary(ctx context.Context, publisherID uint) (float64, int64, error) {
	var row struct {
		Average *float64
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.CompanyReview{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("publisher_id = ?", publisherID).
		Scan(&row).Error
	if err != nil || row.Average == nil {
		return 0, row.Total, err
	}
	return *row.Average, row.Total, nil
}

func (r *reviewRepository) GetByStudentAndPublisher(ctx context.Context, studentID, publisherID uint) (*models.CompanyReview, error) {
	var review models.CompanyReview
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND publisher_id = ?", studentID, publisherID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Upsert inserts the review or replaces the rating and text of the existing
// one for the same (student, publisher) pair, then reloads it.
func (r *reviewRepository) Upsert(ctx context.Context, review *models.CompanyReview) error {
	review.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "publisher_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review_text", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByStudentAndPublisher(ctx, review.StudentID, review.PublisherID)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}
