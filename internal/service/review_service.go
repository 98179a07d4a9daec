package service

import (
	"context"
	"math"
	"unicode/utf8"

	"uniwiz/internal/cache"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"
	"uniwiz/internal/validation"
)

const maxReviewLength = 2000

// ReviewService provides company review business logic.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
}

// NewReviewService returns a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, userRepo: userRepo}
}

func (s *ReviewService) requirePublisher(ctx context.Context, publisherID uint) error {
	u, err := s.userRepo.GetCachedByID(ctx, publisherID)
	if err != nil {
		return notFound(err, "Publisher", publisherID)
	}
	if u.Role != models.RolePublisher {
		return models.NewNotFoundError("Publisher", publisherID)
	}
	return nil
}

// List returns every review of publisherID with the average rating.
func (s *ReviewService) List(ctx context.Context, publisherID uint) (*models.ReviewSummary, error) {
	if err := s.requirePublisher(ctx, publisherID); err != nil {
		return nil, err
	}
	summary, err := cache.Aside(ctx, cache.PublisherReviewsKey(publisherID), cache.PublisherReviewsTTL,
		func(ctx context.Context) (models.ReviewSummary, error) {
			reviews, err := s.reviewRepo.ListByPublisher(ctx, publisherID)
			if err != nil {
				return models.ReviewSummary{}, err
			}
			avg, count, err := s.reviewRepo.Summary(ctx, publisherID)
			if err != nil {
				return models.ReviewSummary{}, err
			}
			if reviews == nil {
				reviews = []models.CompanyReview{}
			}
			return models.ReviewSummary{
				PublisherID:   publisherID,
				AverageRating: math.Round(avg*10) / 10,
				ReviewCount:   count,
				Reviews:       reviews,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Mine returns studentID's review of publisherID.
func (s *ReviewService) Mine(ctx context.Context, studentID, publisherID uint) (*models.CompanyReview, error) {
	review, err := s.reviewRepo.GetByStudentAndPublisher(ctx, studentID, publisherID)
	if err != nil {
		return nil, notFound(err, "Review for publisher", publisherID)
	}
	return review, nil
}

// Upsert creates or replaces studentID's review of publisherID.
func (s *ReviewService) Upsert(ctx context.Context, studentID, publisherID uint, rating int, text string) (*models.CompanyReview, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}
	text = validation.StripTags(text)
	if utf8.RuneCountInString(text) > maxReviewLength {
		return nil, models.NewValidationError("review_text is too long")
	}
	if err := s.requirePublisher(ctx, publisherID); err != nil {
		return nil, err
	}

	review := &models.CompanyReview{
		StudentID:   studentID,
		PublisherID: publisherID,
		Rating:      rating,
		ReviewText:  text,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}
	cache.InvalidatePublisherReviews(ctx, publisherID)
	return review, nil
}
