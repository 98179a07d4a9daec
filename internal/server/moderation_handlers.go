package server

import (
	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/repository"
	"uniwiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
// @Summary Report a user from a conversation
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{conversation_id=int,reported_user_id=int,reason=string} true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reports [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		ConversationID uint   `json:"conversation_id"`
		ReportedUserID uint   `json:"reported_user_id"`
		Reason         string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	report, err := s.moderationService.CreateReport(c.UserContext(), currentActor(c).ID, service.CreateReportInput{
		ConversationID: req.ConversationID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports
// @Summary List reports
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, resolved or dismissed"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} object{items=[]models.Report,total=int,limit=int,offset=int}
// @Router /admin/reports [get]
func (s *Server) GetReports(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	reports, total, err := s.moderationService.ListReports(c.UserContext(),
		models.ReportStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(newListResponse(reports, total, page))
}

// UpdateReport handles PUT /api/admin/reports/:id
// @Summary Resolve or dismiss a report
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param request body object{status=string,admin_note=string} true "Decision"
// @Success 200 {object} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/reports/{id} [put]
func (s *Server) UpdateReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Status    string `json:"status"`
		AdminNote string `json:"admin_note"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	actor := currentActor(c)
	report, err := s.moderationService.UpdateReport(c.UserContext(), id, service.UpdateReportInput{
		Status:    models.ReportStatus(req.Status),
		AdminNote: req.AdminNote,
	}, actor.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "report updated",
		"report_id", id, "status", report.Status)
	return c.JSON(report)
}

// GetPendingReportCount handles GET /api/admin/reports/pending-count
// @Summary Pending report count
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{count=int}
// @Router /admin/reports/pending-count [get]
func (s *Server) GetPendingReportCount(c *fiber.Ctx) error {
	count, err := s.moderationService.PendingCount(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// GetUsers handles GET /api/admin/users
// @Summary Search users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "student, publisher or admin"
// @Param status query string false "active or blocked"
// @Param q query string false "Name, email or company contains"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} object{items=[]models.User,total=int,limit=int,offset=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	users, total, err := s.moderationService.ListUsers(c.UserContext(), repository.UserFilter{
		Role:   models.UserRole(c.Query("role")),
		Status: models.UserStatus(c.Query("status")),
		Query:  c.Query("q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(newListResponse(users, total, page))
}

// UpdateUserStatus handles PUT /api/admin/users/:id/status
// @Summary Block or unblock a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{status=string} true "active or blocked"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/status [put]
func (s *Server) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.moderationService.SetUserStatus(c.UserContext(), currentActor(c), id, models.UserStatus(req.Status))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user status changed",
		"target_id", id, "status", user.Status)
	return c.JSON(user)
}

// VerifyUser handles PUT /api/admin/users/:id/verify
// @Summary Set a user's verified flag
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{is_verified=bool} true "Flag"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/verify [put]
func (s *Server) VerifyUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		IsVerified *bool `json:"is_verified"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.IsVerified == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_verified is required"))
	}

	user, err := s.moderationService.SetVerified(c.UserContext(), id, *req.IsVerified)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/admin/users/:id
// @Summary Delete a user and everything they own
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteUser(c.UserContext(), currentActor(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.Logger.WarnContext(c.UserContext(), "user deleted", "target_id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAdminStats handles GET /api/admin/stats
// @Summary Dashboard counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AdminStats
// @Router /admin/stats [get]
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}
