package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/app/views"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/wizard"
)

// ProjectController serves the project detail page and the edit panel
type ProjectController struct {
	pages     *SchoolController
	wizard    *wizard.Service
	publicURL string
	logger    zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(pages *SchoolController, wizardService *wizard.Service, publicURL string, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		pages:     pages,
		wizard:    wizardService,
		publicURL: publicURL,
		logger:    logger,
	}
}

func projectRef(ctx *gin.Context) wizard.ProjectRef {
	return wizard.ProjectRef{
		SchoolID:     ctx.Param("schoolId"),
		CollegeID:    ctx.Param("collegeId"),
		DepartmentID: ctx.Param("departmentId"),
		ProjectID:    ctx.Param("projectId"),
	}
}

// Detail shows one project
// @Summary Project detail
// @Description Returns the project with its authors, main PDF, tabs and share link. Related projects are loaded on the related tab only.
// @Tags pages
// @Produce json
// @Param schoolId path string true "School ID"
// @Param collegeId path string true "College ID"
// @Param departmentId path string true "Department ID"
// @Param projectId path string true "Project ID"
// @Param tab query string false "Tab" Enums(overview, fulltext, resources, related) default(overview)
// @Success 200 {object} dto.APIResponse{data=dto.Page{view=views.ProjectDetail}} "Project detail"
// @Success 302 "Not signed in"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId}/college/{collegeId}/department/{departmentId}/project/{projectId} [get]
func (c *ProjectController) Detail(ctx *gin.Context) {
	ref := projectRef(ctx)
	tab := views.NormalizeTab(ctx.Query("tab"))
	reqCtx := ctx.Request.Context()

	project, err := c.pages.services.Project.GetProjectByID(reqCtx, ref.SchoolID, ref.CollegeID, ref.DepartmentID, ref.ProjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var related []models.Project
	if tab == views.TabRelated {
		if related, err = c.pages.services.Project.GetRelatedProjects(reqCtx, ref.SchoolID, ref.ProjectID, false); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	summary := c.pages.summary(ctx)
	trail := views.Trail{
		SchoolID:     ref.SchoolID,
		SchoolName:   summary.SchoolName,
		CollegeID:    ref.CollegeID,
		CollegeName:  c.pages.collegeName(reqCtx, ref.SchoolID, ref.CollegeID),
		DepartmentID: ref.DepartmentID,
	}
	ctx.JSON(http.StatusOK, page(summary, views.BuildProjectDetail(*project, related, tab, c.publicURL, trail)))
}

// EditPanel opens the edit form of a project
// @Summary Open the project edit panel
// @Description Returns the pre-populated edit form. collegeId and departmentId load the dependent select options for the user's current choices.
// @Tags projects
// @Produce json
// @Param schoolId path string true "School ID"
// @Param collegeId path string true "College ID"
// @Param departmentId path string true "Department ID"
// @Param projectId path string true "Project ID"
// @Param collegeId query string false "Selected college"
// @Param departmentId query string false "Selected department"
// @Success 200 {object} dto.APIResponse{data=wizard.EditPanel} "Edit panel"
// @Success 302 "Not signed in"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /school/{schoolId}/college/{collegeId}/department/{departmentId}/project/{projectId}/edit [get]
func (c *ProjectController) EditPanel(ctx *gin.Context) {
	panel, err := c.wizard.OpenEdit(ctx.Request.Context(), sessionUser(ctx), projectRef(ctx), ctx.Query("collegeId"), ctx.Query("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(panel))
}

// Update submits the edit panel
// @Summary Update a project
// @Description Validates the edit form like the first wizard step and updates the project. On success the client reloads.
// @Tags projects
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param collegeId path string true "College ID"
// @Param departmentId path string true "Department ID"
// @Param projectId path string true "Project ID"
// @Param request body dto.EditProjectRequest true "Edited project"
// @Success 200 {object} dto.APIResponse{data=dto.ReloadResponse} "Project updated"
// @Success 302 "Not signed in"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Failure 502 {object} dto.ErrorResponse "Failed to update project. Please try again."
// @Router /school/{schoolId}/college/{collegeId}/department/{departmentId}/project/{projectId}/edit [put]
func (c *ProjectController) Update(ctx *gin.Context) {
	var req dto.EditProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.wizard.SubmitEdit(ctx.Request.Context(), sessionID(ctx), sessionUser(ctx), projectRef(ctx), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ReloadResponse{
		Message: wizard.MsgUpdateSuccess,
		Reload:  true,
	}))
}
