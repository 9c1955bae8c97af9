package wizard

import (
	"context"
	"strconv"
	"time"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// Edit panel messages
const (
	MsgUpdateFailed  = "Failed to update project. Please try again."
	MsgUpdateSuccess = "Project updated successfully!"
)

// ProjectRef locates a project through the route
type ProjectRef struct {
	SchoolID     string
	CollegeID    string
	DepartmentID string
	ProjectID    string
}

// EditPanel is the edit form of an existing project with its select options
type EditPanel struct {
	ProjectID string  `json:"projectId"`
	Form      Form    `json:"form"`
	Options   Options `json:"options"`
}

// NewEditForm pre-populates the form from project. The department comes straight from the project,
// so the college is left blank.
func NewEditForm(project models.Project, user models.User, schoolID string) Form {
	year := strconv.Itoa(time.Now().Year())
	if project.Year != 0 {
		year = strconv.Itoa(project.Year)
	}
	if project.SchoolID != "" {
		schoolID = project.SchoolID
	}

	form := Form{
		Title:        project.Title,
		Abstract:     project.AbstractText(),
		AuthorIDs:    []string{user.ID},
		DepartmentID: project.DepartmentID,
		SchoolID:     schoolID,
		Year:         year,
	}
	if project.Supervisor != nil {
		form.Supervisor = Supervisor{ID: project.Supervisor.ID, Name: project.Supervisor.Name}
	}
	return form
}

// ApplyEdit replays the submitted edit on the pre-populated form in cascade order:
// college, department, then supervisor. Selections equal to the current ones change nothing.
func ApplyEdit(form Form, req dto.EditProjectRequest) Form {
	form = form.WithDetails(req.Title, req.Abstract, req.Year)

	if req.CollegeID != "" && req.CollegeID != form.CollegeID {
		form = form.WithCollege(req.CollegeID)
	}
	if req.DepartmentID != "" && req.DepartmentID != form.DepartmentID {
		form = form.WithDepartment(req.DepartmentID)
	}

	switch {
	case req.CreateNew:
		if !form.CreateNew {
			form = form.WithCreateNew(true)
		}
		form = form.WithNewSupervisorName(req.NewSupervisorName)
	case req.SupervisorID != "":
		form = form.WithSupervisor(req.SupervisorID)
	}
	return form
}

// OpenEdit loads the project and the select options. collegeID and departmentID are the user's current
// selections, used only to load the dependent lists.
func (s *Service) OpenEdit(ctx context.Context, user models.User, ref ProjectRef, collegeID, departmentID string) (*EditPanel, error) {
	project, err := s.deps.Projects.GetProjectByID(ctx, ref.SchoolID, ref.CollegeID, ref.DepartmentID, ref.ProjectID)
	if err != nil {
		return nil, err
	}

	panel := &EditPanel{
		ProjectID: project.ID,
		Form:      NewEditForm(*project, user, ref.SchoolID),
	}

	if panel.Options.Colleges, err = s.deps.Colleges.GetAllColleges(ctx, ref.SchoolID); err != nil {
		return nil, err
	}
	if collegeID != "" {
		if panel.Options.Departments, err = s.deps.Departments.GetAllDepartments(ctx, ref.SchoolID, collegeID); err != nil {
			return nil, err
		}
	}
	if departmentID == "" {
		departmentID = panel.Form.DepartmentID
	}
	if departmentID != "" {
		if panel.Options.Supervisors, err = s.deps.Departments.GetAllSupervisors(ctx, departmentID); err != nil {
			return nil, err
		}
	}
	return panel, nil
}

// SubmitEdit validates the edited form and updates the project. Progress goes to the session's event stream.
func (s *Service) SubmitEdit(ctx context.Context, sessionID string, user models.User, ref ProjectRef, req dto.EditProjectRequest) error {
	project, err := s.deps.Projects.GetProjectByID(ctx, ref.SchoolID, ref.CollegeID, ref.DepartmentID, ref.ProjectID)
	if err != nil {
		return err
	}

	form := ApplyEdit(NewEditForm(*project, user, ref.SchoolID), req)
	if err := form.Validate(); err != nil {
		return err
	}

	stop := trackProgress(s.notifier, s.deps.ProgressInterval, sessionID, "edit", updateMessages)
	callCtx, cancel := s.detach(ctx)
	err = s.deps.Projects.UpdateProject(callCtx, ref.SchoolID, ref.ProjectID, form.Payload())
	cancel()
	stop()

	if err != nil {
		s.logger.Warn().Err(err).Str("project_id", ref.ProjectID).Msg("Project update failed")
		return apperrors.NewCustomError(err, MsgUpdateFailed)
	}
	s.logger.Info().Str("project_id", ref.ProjectID).Msg("Project updated")
	return nil
}
