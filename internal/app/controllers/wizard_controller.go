package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/validation"
	"github.com/yigit/fypdash/internal/wizard"
)

// WizardController exposes the project creation wizard of the current session
type WizardController struct {
	wizard *wizard.Service
	logger zerolog.Logger
}

// NewWizardController creates a new WizardController
func NewWizardController(wizardService *wizard.Service, logger zerolog.Logger) *WizardController {
	return &WizardController{
		wizard: wizardService,
		logger: logger,
	}
}

// respond answers with the wizard view. Failed actions still carry the view so the inline error can be shown.
func respond(ctx *gin.Context, view wizard.View, err error) {
	if err != nil {
		var data interface{}
		if view.Step != "" {
			data = view
		}
		middleware.HandleAPIErrorWithData(ctx, err, data)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(view))
}

func sessionID(ctx *gin.Context) string {
	return ctx.GetString(middleware.ContextSessionIDKey)
}

// SameSchool rejects wizard actions whose route names a different school than the open wizard
func (c *WizardController) SameSchool() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.wizard.CheckSchool(sessionID(ctx), ctx.Param("schoolId")); err != nil {
			c.logger.Debug().Str("school_id", ctx.Param("schoolId")).Msg("Wizard action for another school")
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.Next()
	}
}

// Open opens the wizard
// @Summary Open the project wizard
// @Description Opens the wizard on the details step and loads the colleges. A wizard already in progress for this school is kept.
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Success 302 "Not signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /school/{schoolId}/wizard [post]
func (c *WizardController) Open(ctx *gin.Context) {
	view, err := c.wizard.Open(ctx.Request.Context(), sessionID(ctx), sessionUser(ctx), ctx.Param("schoolId"))
	respond(ctx, view, err)
}

// State returns the wizard
// @Summary Get the wizard state
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Wizard is not open"
// @Router /school/{schoolId}/wizard [get]
func (c *WizardController) State(ctx *gin.Context) {
	view, err := c.wizard.State(sessionID(ctx))
	respond(ctx, view, err)
}

// SelectCollege picks the college
// @Summary Choose a college
// @Description Clears department and supervisor, then loads the college's departments
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.SelectCollegeRequest true "College"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step"
// @Router /school/{schoolId}/wizard/college [put]
func (c *WizardController) SelectCollege(ctx *gin.Context) {
	var req dto.SelectCollegeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.SelectCollege(ctx.Request.Context(), sessionID(ctx), req.CollegeID)
	respond(ctx, view, err)
}

// SelectDepartment picks the department
// @Summary Choose a department
// @Description Clears the supervisor, then loads the department's supervisors
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.SelectDepartmentRequest true "Department"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step"
// @Router /school/{schoolId}/wizard/department [put]
func (c *WizardController) SelectDepartment(ctx *gin.Context) {
	var req dto.SelectDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.SelectDepartment(ctx.Request.Context(), sessionID(ctx), req.DepartmentID)
	respond(ctx, view, err)
}

// SelectSupervisor picks an existing supervisor
// @Summary Choose a supervisor
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.SelectSupervisorRequest true "Supervisor"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step"
// @Router /school/{schoolId}/wizard/supervisor [put]
func (c *WizardController) SelectSupervisor(ctx *gin.Context) {
	var req dto.SelectSupervisorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.SelectSupervisor(sessionID(ctx), req.SupervisorID)
	respond(ctx, view, err)
}

// SetSupervisorMode switches between an existing and a new supervisor
// @Summary Toggle new supervisor mode
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.SupervisorModeRequest true "Mode"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step"
// @Router /school/{schoolId}/wizard/supervisor-mode [put]
func (c *WizardController) SetSupervisorMode(ctx *gin.Context) {
	var req dto.SupervisorModeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.SetSupervisorMode(sessionID(ctx), req.CreateNew)
	respond(ctx, view, err)
}

// UpdateDetails stores the typed fields
// @Summary Edit project details
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.ProjectDetailsRequest true "Details"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step"
// @Router /school/{schoolId}/wizard/details [put]
func (c *WizardController) UpdateDetails(ctx *gin.Context) {
	var req dto.ProjectDetailsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.UpdateDetails(sessionID(ctx), req)
	respond(ctx, view, err)
}

// SubmitDetails creates or updates the project and moves to the file step
// @Summary Submit project details
// @Description Validates the details and creates the project. After going back, the existing project is updated instead.
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state on the file step"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Failure 409 {object} dto.ErrorResponse "Not on the details step or busy"
// @Failure 502 {object} dto.ErrorResponse "Backend error"
// @Router /school/{schoolId}/wizard/details/submit [post]
func (c *WizardController) SubmitDetails(ctx *gin.Context) {
	view, err := c.wizard.SubmitDetails(ctx.Request.Context(), sessionID(ctx))
	respond(ctx, view, err)
}

// Back returns to the details step
// @Summary Back to the details step
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the file step"
// @Router /school/{schoolId}/wizard/back [post]
func (c *WizardController) Back(ctx *gin.Context) {
	view, err := c.wizard.Back(sessionID(ctx))
	respond(ctx, view, err)
}

// SelectFile keeps a local file for upload
// @Summary Select the project file
// @Description Checks size and type. Rejected files leave the state unchanged apart from the error.
// @Tags wizard
// @Accept mpfd
// @Produce json
// @Param schoolId path string true "School ID"
// @Param file formData file true "PDF, DOC or DOCX up to 20MB"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 400 {object} dto.ErrorResponse "File size exceeds 20MB limit"
// @Failure 409 {object} dto.ErrorResponse "Not on the file step"
// @Router /school/{schoolId}/wizard/file [put]
func (c *WizardController) SelectFile(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoFileSelected)
		return
	}

	file := wizard.SelectedFile{
		Filename: header.Filename,
		Mimetype: header.Header.Get("Content-Type"),
		Size:     header.Size,
	}
	if header.Size <= validation.MaxFileSize {
		f, err := header.Open()
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to open uploaded file")
			middleware.HandleAPIError(ctx, err)
			return
		}
		file.Content, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to read uploaded file")
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	view, err := c.wizard.SelectFile(sessionID(ctx), file)
	respond(ctx, view, err)
}

// RemoveFile drops the selected file
// @Summary Remove the selected file
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Not on the file step"
// @Router /school/{schoolId}/wizard/file [delete]
func (c *WizardController) RemoveFile(ctx *gin.Context) {
	view, err := c.wizard.RemoveFile(sessionID(ctx))
	respond(ctx, view, err)
}

// Upload sends the selected file to the media host
// @Summary Upload the selected file
// @Description Progress messages are pushed to the wizard event stream while the upload runs
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state with the uploaded path"
// @Failure 400 {object} dto.ErrorResponse "Please select a file to upload"
// @Failure 502 {object} dto.ErrorResponse "Failed to upload file. Please try again."
// @Router /school/{schoolId}/wizard/upload [post]
func (c *WizardController) Upload(ctx *gin.Context) {
	view, err := c.wizard.Upload(ctx.Request.Context(), sessionID(ctx))
	respond(ctx, view, err)
}

// SubmitFile records the uploaded file and completes the wizard
// @Summary Submit the project file
// @Tags wizard
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Completed wizard"
// @Failure 400 {object} dto.ErrorResponse "Please upload the file first"
// @Failure 502 {object} dto.ErrorResponse "Backend error"
// @Router /school/{schoolId}/wizard/submit [post]
func (c *WizardController) SubmitFile(ctx *gin.Context) {
	view, err := c.wizard.SubmitFile(ctx.Request.Context(), sessionID(ctx))
	respond(ctx, view, err)
}

// Close closes the wizard
// @Summary Close the wizard
// @Description Closing with entered data needs confirm=true; closing before completion resets the wizard
// @Tags wizard
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param request body dto.CloseWizardRequest false "Confirmation"
// @Success 200 {object} dto.APIResponse{data=wizard.View} "Wizard state"
// @Failure 409 {object} dto.ErrorResponse "Are you sure you want to close? All your progress will be lost."
// @Router /school/{schoolId}/wizard/close [post]
func (c *WizardController) Close(ctx *gin.Context) {
	var req dto.CloseWizardRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.wizard.Close(sessionID(ctx), req.Confirm)
	respond(ctx, view, err)
}
