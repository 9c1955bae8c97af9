package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/app/services"
	"github.com/yigit/fypdash/internal/app/views"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/session"
)

// DefaultHydrationWait bounds how long a page waits for the session's school name
const DefaultHydrationWait = 2 * time.Second

// SchoolController serves the browsing pages: landing, colleges, departments and projects
type SchoolController struct {
	services      *services.Services
	sessions      *session.Manager
	hydrationWait time.Duration
	logger        zerolog.Logger
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(svc *services.Services, sessions *session.Manager, hydrationWait time.Duration, logger zerolog.Logger) *SchoolController {
	if hydrationWait <= 0 {
		hydrationWait = DefaultHydrationWait
	}
	return &SchoolController{
		services:      svc,
		sessions:      sessions,
		hydrationWait: hydrationWait,
		logger:        logger,
	}
}

// summary returns the header information of the session, waiting briefly for the school name
func (c *SchoolController) summary(ctx *gin.Context) dto.SessionSummary {
	s := middleware.CurrentSession(ctx)
	if s == nil {
		return dto.SessionSummary{}
	}

	waitCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.hydrationWait)
	defer cancel()
	hydrated, err := c.sessions.WaitHydrated(waitCtx, s.ID)
	if err != nil {
		c.logger.Debug().Err(err).Str("session_id", s.ID).Msg("Rendering before the school name resolved")
	}
	if hydrated != nil {
		s = hydrated
	}

	return dto.SessionSummary{
		User:       s.User,
		SchoolName: s.SchoolName,
		Hydrated:   s.Hydrated,
	}
}

func page(summary dto.SessionSummary, view interface{}) dto.APIResponse {
	return dto.NewAPIResponse(dto.Page{Session: summary, View: view})
}

func bindListQuery(ctx *gin.Context) dto.ListQuery {
	var q dto.ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return dto.ListQuery{}
	}
	return q
}

// Landing shows the dashboard entry of a school
// @Summary School landing page
// @Description Returns the schools and the signed-in user's header information
// @Tags pages
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.Page{view=dto.LandingView}} "Landing page"
// @Success 302 "Not signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId} [get]
func (c *SchoolController) Landing(ctx *gin.Context) {
	schoolID := ctx.Param("schoolId")

	schools, err := c.services.School.GetAllSchools(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page(c.summary(ctx), dto.LandingView{
		Schools:      schools,
		CollegesHref: views.CollegesPath(schoolID),
	}))
}

// Colleges lists the colleges of a school
// @Summary College list
// @Description Lists the school's colleges with department and project totals. q filters by name.
// @Tags pages
// @Produce json
// @Param schoolId path string true "School ID"
// @Param q query string false "Search by college name"
// @Success 200 {object} dto.APIResponse{data=dto.Page{view=views.CollegeList}} "College list"
// @Success 302 "Not signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId}/college [get]
func (c *SchoolController) Colleges(ctx *gin.Context) {
	schoolID := ctx.Param("schoolId")
	q := bindListQuery(ctx)

	colleges, err := c.services.College.GetAllColleges(ctx.Request.Context(), schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary := c.summary(ctx)
	trail := views.Trail{SchoolID: schoolID, SchoolName: summary.SchoolName}
	ctx.JSON(http.StatusOK, page(summary, views.BuildCollegeList(colleges, q.Search, trail)))
}

// Departments lists the departments of a college
// @Summary Department list
// @Description Lists the college's departments with project counts. q filters by name; tag is echoed back but does not filter.
// @Tags pages
// @Produce json
// @Param schoolId path string true "School ID"
// @Param collegeId path string true "College ID"
// @Param q query string false "Search by department name"
// @Param tag query []string false "Selected tags" collectionFormat(multi)
// @Success 200 {object} dto.APIResponse{data=dto.Page{view=views.DepartmentList}} "Department list"
// @Success 302 "Not signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId}/college/{collegeId}/department [get]
func (c *SchoolController) Departments(ctx *gin.Context) {
	schoolID, collegeID := ctx.Param("schoolId"), ctx.Param("collegeId")
	q := bindListQuery(ctx)
	reqCtx := ctx.Request.Context()

	departments, err := c.services.Department.GetAllDepartments(reqCtx, schoolID, collegeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary := c.summary(ctx)
	trail := views.Trail{
		SchoolID:    schoolID,
		SchoolName:  summary.SchoolName,
		CollegeID:   collegeID,
		CollegeName: c.collegeName(reqCtx, schoolID, collegeID),
	}
	ctx.JSON(http.StatusOK, page(summary, views.BuildDepartmentList(departments, q.Search, q.Tags, trail)))
}

// Projects lists the projects of a department
// @Summary Project list
// @Description Lists the department's projects. q searches title, authors, tags, abstract and supervisor; year filters; sort orders.
// @Tags pages
// @Produce json
// @Param schoolId path string true "School ID"
// @Param collegeId path string true "College ID"
// @Param departmentId path string true "Department ID"
// @Param q query string false "Search text"
// @Param year query string false "Year or all" default(all)
// @Param sort query string false "Sort order" Enums(newest, oldest, popular, downloads) default(newest)
// @Success 200 {object} dto.APIResponse{data=dto.Page{view=views.ProjectList}} "Project list"
// @Success 302 "Not signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId}/college/{collegeId}/department/{departmentId}/projects [get]
func (c *SchoolController) Projects(ctx *gin.Context) {
	schoolID, collegeID, departmentID := ctx.Param("schoolId"), ctx.Param("collegeId"), ctx.Param("departmentId")
	q := bindListQuery(ctx)
	reqCtx := ctx.Request.Context()

	projects, err := c.services.Project.GetAllProjects(reqCtx, schoolID, collegeID, departmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary := c.summary(ctx)
	trail := views.Trail{
		SchoolID:       schoolID,
		SchoolName:     summary.SchoolName,
		CollegeID:      collegeID,
		CollegeName:    c.collegeName(reqCtx, schoolID, collegeID),
		DepartmentID:   departmentID,
		DepartmentName: c.departmentName(reqCtx, schoolID, collegeID, departmentID),
	}
	opts := views.ListOptions{Search: q.Search, Year: q.Year, Sort: q.Sort}
	ctx.JSON(http.StatusOK, page(summary, views.BuildProjectList(projects, opts, trail)))
}

// collegeName looks the college up for the breadcrumbs; a failed lookup only leaves the crumb unnamed
func (c *SchoolController) collegeName(ctx context.Context, schoolID, collegeID string) string {
	colleges, err := c.services.College.GetAllColleges(ctx, schoolID)
	if err != nil {
		c.logger.Warn().Err(err).Str("college_id", collegeID).Msg("Failed to resolve college name")
		return ""
	}
	return views.CollegeName(colleges, collegeID)
}

func (c *SchoolController) departmentName(ctx context.Context, schoolID, collegeID, departmentID string) string {
	departments, err := c.services.Department.GetAllDepartments(ctx, schoolID, collegeID)
	if err != nil {
		c.logger.Warn().Err(err).Str("department_id", departmentID).Msg("Failed to resolve department name")
		return ""
	}
	return views.DepartmentName(departments, departmentID)
}

// sessionUser returns the signed-in user; Protected guarantees one is present
func sessionUser(ctx *gin.Context) models.User {
	if s := middleware.CurrentSession(ctx); s != nil && s.User != nil {
		return *s.User
	}
	return models.User{}
}
