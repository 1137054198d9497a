package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

type jobRequest struct {
	Title          string  `json:"title"`
	Department     *string `json:"department"`
	Location       *string `json:"location"`
	EmploymentType string  `json:"employmentType"`
	Description    string  `json:"description"`
	Requirements   *string `json:"requirements"`
	IsOpen         *bool   `json:"isOpen"`
}

func (r jobRequest) input() domain.JobInput {
	open := true
	if r.IsOpen != nil {
		open = *r.IsOpen
	}
	return domain.JobInput{
		Title:          r.Title,
		Department:     r.Department,
		Location:       r.Location,
		EmploymentType: domain.EmploymentType(r.EmploymentType),
		Description:    r.Description,
		Requirements:   r.Requirements,
		IsOpen:         open,
	}
}

type JobHandler struct {
	jobs    *service.JobService
	respond Responder
}

func RegisterJobs(e *echo.Echo, admin *echo.Group, jobs *service.JobService, respond Responder, guards Guards) {
	h := &JobHandler{jobs: jobs, respond: respond}

	e.GET("/api/v1/jobs", h.listOpen, guards.cache())
	e.GET("/api/v1/jobs/:id", h.getOpen, guards.cache())
	e.POST("/api/v1/jobs/:id/applications", h.apply, guards.rateLimit())

	admin.GET("/jobs", h.listAll)
	admin.POST("/jobs", h.create)
	admin.PUT("/jobs/:id", h.update)
	admin.DELETE("/jobs/:id", h.delete)
	admin.GET("/jobs/:id/applications", h.listApplications)
}

func (h *JobHandler) listOpen(c echo.Context) error {
	return h.list(c, true)
}

func (h *JobHandler) listAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *JobHandler) list(c echo.Context, openOnly bool) error {
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.jobs.List(c.Request().Context(), openOnly, limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("jobs", page))
}

func (h *JobHandler) getOpen(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid job id")
	}
	job, err := h.jobs.Get(c.Request().Context(), id, true)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("job", job))
}

func (h *JobHandler) create(c echo.Context) error {
	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	job, err := h.jobs.Create(c.Request().Context(), req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("job created", job))
}

func (h *JobHandler) update(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid job id")
	}
	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	job, err := h.jobs.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("job updated", job))
}

func (h *JobHandler) delete(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid job id")
	}
	if err := h.jobs.Delete(c.Request().Context(), id); err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("job deleted", nil))
}

// apply accepts multipart/form-data with a "cv" file part.
func (h *JobHandler) apply(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid job id")
	}
	cv, closeFn, err := formUpload(c, "cv")
	if err != nil {
		cv = media.Upload{}
	}
	defer closeFn()

	application, err := h.jobs.Apply(c.Request().Context(), id, service.JobApplicationInput{
		FullName:     c.FormValue("fullName"),
		Email:        c.FormValue("email"),
		MobileNumber: c.FormValue("mobileNumber"),
		CoverLetter:  optionalForm(c, "coverLetter"),
		CV:           cv,
	})
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusCreated, util.Success("application received", echo.Map{
		"id":        application.ID,
		"jobId":     application.JobID,
		"createdAt": application.CreatedAt,
	}))
}

func (h *JobHandler) listApplications(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid job id")
	}
	limit, offset := parsePagination(c, 20, 0)
	page, err := h.jobs.ListApplications(c.Request().Context(), id, limit, offset)
	if err != nil {
		return h.respond.fail(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("job applications", page))
}
