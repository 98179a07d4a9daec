package server

import (
	"uniwiz/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ApplyToJob handles POST /api/jobs/:id/apply
// @Summary Apply to a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body object{proposal=string} true "Proposal"
// @Success 201 {object} models.JobApplication
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /jobs/{id}/apply [post]
func (s *Server) ApplyToJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Proposal string `json:"proposal"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	app, err := s.applicationService.Apply(c.UserContext(), currentActor(c).ID, jobID, req.Proposal)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// GetMyApplications handles GET /api/applications/me
// @Summary My applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.MyApplication
// @Router /applications/me [get]
func (s *Server) GetMyApplications(c *fiber.Ctx) error {
	apps, err := s.applicationService.ListMine(c.UserContext(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(apps)
}

// GetApplicants handles GET /api/publisher/jobs/:id/applicants
// @Summary Applicants of a job
// @Description Pending applications become viewed as part of this read
// @Tags publisher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {array} service.Applicant
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /publisher/jobs/{id}/applicants [get]
func (s *Server) GetApplicants(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	applicants, err := s.applicationService.ListApplicants(c.UserContext(), jobID, currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(applicants)
}

// UpdateApplicationStatus handles PUT /api/applications/:id/status
// @Summary Accept or reject an application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body object{status=string} true "accepted or rejected"
// @Success 200 {object} models.JobApplication
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /applications/{id}/status [put]
func (s *Server) UpdateApplicationStatus(c *fiber.Ctx) error {
	appID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	app, err := s.applicationService.UpdateStatus(c.UserContext(), appID,
		models.ApplicationStatus(req.Status), currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(app)
}
