package server

import (
	"uniwiz/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPublisherReviews handles GET /api/publishers/:id/reviews
// @Summary Reviews of a publisher
// @Tags reviews
// @Produce json
// @Param id path int true "Publisher ID"
// @Success 200 {object} models.ReviewSummary
// @Failure 404 {object} models.ErrorResponse
// @Router /publishers/{id}/reviews [get]
func (s *Server) GetPublisherReviews(c *fiber.Ctx) error {
	publisherID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	summary, err := s.reviewService.List(c.UserContext(), publisherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(summary)
}

// GetMyReview handles GET /api/publishers/:id/reviews/mine
// @Summary My review of a publisher
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publisher ID"
// @Success 200 {object} models.CompanyReview
// @Failure 404 {object} models.ErrorResponse
// @Router /publishers/{id}/reviews/mine [get]
func (s *Server) GetMyReview(c *fiber.Ctx) error {
	publisherID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	review, err := s.reviewService.Mine(c.UserContext(), currentActor(c).ID, publisherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(review)
}

// UpsertReview handles POST /api/publishers/:id/reviews
// @Summary Write or replace my review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publisher ID"
// @Param request body object{rating=int,review_text=string} true "Review"
// @Success 200 {object} models.CompanyReview
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /publishers/{id}/reviews [post]
func (s *Server) UpsertReview(c *fiber.Ctx) error {
	publisherID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	review, err := s.reviewService.Upsert(c.UserContext(), currentActor(c).ID, publisherID, req.Rating, req.ReviewText)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(review)
}
