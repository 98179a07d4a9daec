package server

import (
	"uniwiz/internal/models"
	"uniwiz/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetJobs handles GET /api/jobs
// @Summary Browse jobs
// @Description Active, non-expired jobs by default, newest first
// @Tags jobs
// @Produce json
// @Param category_id query int false "Category"
// @Param publisher_id query int false "Publisher"
// @Param search query string false "Title or description contains"
// @Param job_type query string false "Job type"
// @Param include_expired query bool false "Include jobs past their deadline"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} object{items=[]models.Job,total=int,limit=int,offset=int}
// @Router /jobs [get]
func (s *Server) GetJobs(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	filter := repository.JobFilter{
		CategoryID:     uint(max(c.QueryInt("category_id", 0), 0)),
		PublisherID:    uint(max(c.QueryInt("publisher_id", 0), 0)),
		Search:         c.Query("search"),
		JobType:        c.Query("job_type"),
		IncludeExpired: c.QueryBool("include_expired", false),
		Limit:          page.Limit,
		Offset:         page.Offset,
	}

	jobs, total, err := s.jobService.List(c.UserContext(), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(newListResponse(jobs, total, page))
}

// GetJob handles GET /api/jobs/:id
// @Summary Job detail
// @Description Drafts are only visible to their publisher and admins
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Job
// @Failure 404 {object} models.ErrorResponse
// @Router /jobs/{id} [get]
func (s *Server) GetJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobService.Get(c.UserContext(), id, s.optionalActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(job)
}

// GetCategories handles GET /api/categories
// @Summary Job categories
// @Tags jobs
// @Produce json
// @Success 200 {array} models.JobCategory
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.jobService.Categories(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if categories == nil {
		categories = []models.JobCategory{}
	}
	return c.JSON(categories)
}

// GetPublisherJobs handles GET /api/publisher/jobs
// @Summary My posted jobs
// @Description Every status, each with display_status and applicant count
// @Tags publisher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PublisherJob
// @Router /publisher/jobs [get]
func (s *Server) GetPublisherJobs(c *fiber.Ctx) error {
	jobs, err := s.jobService.ListForPublisher(c.UserContext(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(jobs)
}

// AdminSetJobStatus handles PUT /api/admin/jobs/:id/status
// @Summary Override a job's status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body object{status=string} true "draft, active or closed"
// @Success 200 {object} models.Job
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/jobs/{id}/status [put]
func (s *Server) AdminSetJobStatus(c *fiber.Ctx) error {
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

	job, err := s.jobService.SetStatus(c.UserContext(), id, models.JobStatus(req.Status))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(job)
}
