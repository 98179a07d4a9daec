package server

import (
	"uniwiz/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFooterSettings handles GET /api/settings/footer
// @Summary Footer links
// @Tags settings
// @Produce json
// @Success 200 {array} models.FooterLinkGroup
// @Router /settings/footer [get]
func (s *Server) GetFooterSettings(c *fiber.Ctx) error {
	groups, err := s.settingsService.Footer(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(groups)
}

// UpdateFooterSettings handles PUT /api/admin/settings/footer
// @Summary Replace footer links
// @Description The body is validated against the footer JSON Schema before saving
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []models.FooterLinkGroup true "Footer link groups"
// @Success 200 {array} models.FooterLinkGroup
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/settings/footer [put]
func (s *Server) UpdateFooterSettings(c *fiber.Ctx) error {
	groups, err := s.settingsService.UpdateFooter(c.UserContext(), c.Body(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(groups)
}
