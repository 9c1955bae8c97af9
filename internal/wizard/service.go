package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/filestorage"
	"github.com/yigit/fypdash/internal/pkg/metrics"
)

// DefaultCallTimeout bounds the project, file and upload calls started by the wizard
const DefaultCallTimeout = 5 * time.Minute

// CollegeLister lists the colleges of a school
type CollegeLister interface {
	GetAllColleges(ctx context.Context, schoolID string) ([]models.College, error)
}

// DepartmentLister lists departments and their supervisors
type DepartmentLister interface {
	GetAllDepartments(ctx context.Context, schoolID, collegeID string) ([]models.Department, error)
	GetAllSupervisors(ctx context.Context, departmentID string) ([]models.Supervisor, error)
}

// ProjectBackend reads and writes projects
type ProjectBackend interface {
	GetProjectByID(ctx context.Context, schoolID, collegeID, departmentID, projectID string) (*models.Project, error)
	CreateProject(ctx context.Context, schoolID string, payload models.ProjectPayload) (*models.Project, error)
	UpdateProject(ctx context.Context, schoolID, projectID string, payload models.ProjectPayload) error
}

// FileRecorder attaches uploaded files to projects
type FileRecorder interface {
	CreateFile(ctx context.Context, payload models.FilePayload) error
}

// Dependencies are the collaborators of a Service
type Dependencies struct {
	Colleges    CollegeLister
	Departments DepartmentLister
	Projects    ProjectBackend
	Files       FileRecorder
	Uploader    filestorage.Uploader
	Notifier    Notifier
	Logger      zerolog.Logger

	// CallTimeout defaults to DefaultCallTimeout, ProgressInterval to DefaultProgressInterval
	CallTimeout      time.Duration
	ProgressInterval time.Duration
}

// Service runs one wizard per session and the edit panel
type Service struct {
	deps     Dependencies
	notifier Notifier
	logger   zerolog.Logger
	reg      *registry
}

// NewService creates a wizard service
func NewService(deps Dependencies) *Service {
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = DefaultCallTimeout
	}
	if deps.ProgressInterval <= 0 {
		deps.ProgressInterval = DefaultProgressInterval
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		deps:     deps,
		notifier: notifier,
		logger:   deps.Logger.With().Str("component", "wizard").Logger(),
		reg:      newRegistry(),
	}
}

// detach keeps long calls alive when the client goes away; the request's values, including the token, are kept
func (s *Service) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.deps.CallTimeout)
}

// update applies fn, then records and publishes the outcome
func (s *Service) update(sessionID, action string, fn func(e *entry) error) (View, error) {
	view, err := s.reg.with(sessionID, fn)
	if errors.Is(err, errNotOpen) {
		metrics.IncrementWizardTransition(action, "not_open")
		return view, err
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		s.logger.Debug().Err(err).Str("session_id", sessionID).Str("action", action).Msg("Wizard action refused")
	}
	metrics.IncrementWizardTransition(action, outcome)
	s.notifier.Publish(sessionID, EventState, view)
	return view, err
}

func stepError(action string, want Step) error {
	return apperrors.NewCustomError(apperrors.ErrWizardState, action+" is only allowed on the "+string(want)+" step")
}

// Open shows the wizard for the session, starting over unless one is already in progress for this school
func (s *Service) Open(ctx context.Context, sessionID string, user models.User, schoolID string) (View, error) {
	s.reg.open(sessionID, user, schoolID)

	var optGen uint64
	if _, err := s.update(sessionID, "open", func(e *entry) error {
		optGen = e.optGen
		return nil
	}); err != nil {
		return View{}, err
	}

	colleges, err := s.deps.Colleges.GetAllColleges(ctx, schoolID)
	if err != nil {
		return View{}, err
	}
	return s.update(sessionID, "colleges", func(e *entry) error {
		if e.optGen == optGen {
			e.options.Colleges = colleges
		}
		return nil
	})
}

// State returns the session's wizard
func (s *Service) State(sessionID string) (View, error) {
	return s.reg.with(sessionID, func(*entry) error { return nil })
}

// SelectCollege sets the college, clears department and supervisor, then loads the college's departments
func (s *Service) SelectCollege(ctx context.Context, sessionID, collegeID string) (View, error) {
	var schoolID string
	var optGen uint64
	view, err := s.update(sessionID, "select_college", func(e *entry) error {
		st, ok := e.state.(DetailsStep)
		if !ok {
			return stepError("Choosing a college", StepDetails)
		}
		if e.busy {
			return errBusy
		}
		st.Form = st.Form.WithCollege(collegeID)
		st.Error = ""
		e.state = st
		e.options.Departments = nil
		e.options.Supervisors = nil
		e.optGen = s.reg.next()
		optGen, schoolID = e.optGen, e.schoolID
		return nil
	})
	if err != nil {
		return view, err
	}

	departments, err := s.deps.Departments.GetAllDepartments(ctx, schoolID, collegeID)
	if err != nil {
		return view, err
	}
	return s.update(sessionID, "departments", func(e *entry) error {
		if e.optGen == optGen {
			e.options.Departments = departments
		}
		return nil
	})
}

// SelectDepartment sets the department, clears the supervisor, then loads the department's supervisors
func (s *Service) SelectDepartment(ctx context.Context, sessionID, departmentID string) (View, error) {
	var optGen uint64
	view, err := s.update(sessionID, "select_department", func(e *entry) error {
		st, ok := e.state.(DetailsStep)
		if !ok {
			return stepError("Choosing a department", StepDetails)
		}
		if e.busy {
			return errBusy
		}
		st.Form = st.Form.WithDepartment(departmentID)
		st.Error = ""
		e.state = st
		e.options.Supervisors = nil
		e.optGen = s.reg.next()
		optGen = e.optGen
		return nil
	})
	if err != nil {
		return view, err
	}

	supervisors, err := s.deps.Departments.GetAllSupervisors(ctx, departmentID)
	if err != nil {
		return view, err
	}
	return s.update(sessionID, "supervisors", func(e *entry) error {
		if e.optGen == optGen {
			e.options.Supervisors = supervisors
		}
		return nil
	})
}

// detailsAction runs fn on the details step of an idle wizard
func (s *Service) detailsAction(sessionID, action string, fn func(st DetailsStep) DetailsStep) (View, error) {
	return s.update(sessionID, action, func(e *entry) error {
		st, ok := e.state.(DetailsStep)
		if !ok {
			return stepError("Editing project details", StepDetails)
		}
		if e.busy {
			return errBusy
		}
		e.state = fn(st)
		return nil
	})
}

// SelectSupervisor picks an existing supervisor
func (s *Service) SelectSupervisor(sessionID, supervisorID string) (View, error) {
	return s.detailsAction(sessionID, "select_supervisor", func(st DetailsStep) DetailsStep {
		st.Form = st.Form.WithSupervisor(supervisorID)
		return st
	})
}

// SetSupervisorMode toggles between an existing and a new supervisor
func (s *Service) SetSupervisorMode(sessionID string, createNew bool) (View, error) {
	return s.detailsAction(sessionID, "supervisor_mode", func(st DetailsStep) DetailsStep {
		st.Form = st.Form.WithCreateNew(createNew)
		return st
	})
}

// UpdateDetails stores the typed fields. The new supervisor name only counts in create-new mode.
func (s *Service) UpdateDetails(sessionID string, req dto.ProjectDetailsRequest) (View, error) {
	return s.detailsAction(sessionID, "details", func(st DetailsStep) DetailsStep {
		st.Form = st.Form.WithDetails(req.Title, req.Abstract, req.Year)
		if st.Form.CreateNew {
			st.Form = st.Form.WithNewSupervisorName(req.NewSupervisorName)
		}
		return st
	})
}

// SubmitDetails validates the form and creates the project, or updates it when the user came back from the file step
func (s *Service) SubmitDetails(ctx context.Context, sessionID string) (View, error) {
	var (
		payload   models.ProjectPayload
		projectID string
		schoolID  string
		gen       uint64
	)
	view, err := s.update(sessionID, "submit_details", func(e *entry) error {
		st, ok := e.state.(DetailsStep)
		if !ok {
			return stepError("Submitting project details", StepDetails)
		}
		if e.busy {
			return errBusy
		}
		next, p, err := st.Prepare()
		e.state = next
		if err != nil {
			return err
		}
		payload, projectID, schoolID = p, st.ProjectID, e.schoolID
		s.reg.invalidate(e)
		e.busy = true
		gen = e.gen
		return nil
	})
	if err != nil {
		return view, err
	}

	stop := trackProgress(s.notifier, s.deps.ProgressInterval, sessionID, "details", createMessages)
	callCtx, cancel := s.detach(ctx)
	if projectID != "" {
		err = s.deps.Projects.UpdateProject(callCtx, schoolID, projectID, payload)
	} else {
		var project *models.Project
		if project, err = s.deps.Projects.CreateProject(callCtx, schoolID, payload); err == nil {
			projectID = project.ID
		}
	}
	cancel()
	stop()

	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Project submission failed")
	} else {
		s.logger.Info().Str("session_id", sessionID).Str("project_id", projectID).Msg("Project details saved")
	}

	return s.update(sessionID, "details_result", func(e *entry) error {
		st, ok := e.state.(DetailsStep)
		if !ok || e.gen != gen {
			return errSuperseded
		}
		e.busy = false
		if err != nil {
			e.state = st.Fail(err.Error())
			return err
		}
		e.state = st.Advance(projectID)
		return nil
	})
}

// Back returns from the file step to the details step. A pending upload is left to finish unobserved.
func (s *Service) Back(sessionID string) (View, error) {
	return s.update(sessionID, "back", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok {
			return stepError("Going back", StepFile)
		}
		s.reg.invalidate(e)
		e.state = st.Back()
		return nil
	})
}

// SelectFile validates and keeps a local file. Nothing leaves the process here.
func (s *Service) SelectFile(sessionID string, file SelectedFile) (View, error) {
	return s.update(sessionID, "select_file", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok {
			return stepError("Selecting a file", StepFile)
		}
		if e.busy {
			return errBusy
		}
		next, err := st.SelectFile(file)
		e.state = next
		return err
	})
}

// RemoveFile drops the selected file and any upload result
func (s *Service) RemoveFile(sessionID string) (View, error) {
	return s.update(sessionID, "remove_file", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok {
			return stepError("Removing the file", StepFile)
		}
		s.reg.invalidate(e)
		e.state = st.RemoveFile()
		return nil
	})
}

// Upload sends the selected file to the media host and stores the returned URL
func (s *Service) Upload(ctx context.Context, sessionID string) (View, error) {
	var (
		upload filestorage.Upload
		gen    uint64
	)
	view, err := s.update(sessionID, "upload", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok {
			return stepError("Uploading", StepFile)
		}
		if e.busy {
			return errBusy
		}
		next, u, err := st.BeginUpload()
		e.state = next
		if err != nil {
			return err
		}
		upload = u
		s.reg.invalidate(e)
		e.busy = true
		gen = e.gen
		return nil
	})
	if err != nil {
		return view, err
	}

	stop := trackProgress(s.notifier, s.deps.ProgressInterval, sessionID, "upload", createMessages)
	callCtx, cancel := s.detach(ctx)
	path, err := s.deps.Uploader.Upload(callCtx, upload)
	cancel()
	stop()

	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Str("host", s.deps.Uploader.Name()).Msg("Upload failed")
	}

	return s.update(sessionID, "upload_result", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok || e.gen != gen {
			return errSuperseded
		}
		e.busy = false
		if err != nil {
			e.state = st.UploadFailed(err.Error())
			return err
		}
		e.state = st.Uploaded(path)
		return nil
	})
}

// SubmitFile creates the file record and completes the wizard
func (s *Service) SubmitFile(ctx context.Context, sessionID string) (View, error) {
	var (
		record models.FilePayload
		gen    uint64
	)
	view, err := s.update(sessionID, "submit_file", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok {
			return stepError("Submitting the file", StepFile)
		}
		if e.busy {
			return errBusy
		}
		next, r, err := st.FileRecord()
		e.state = next
		if err != nil {
			return err
		}
		record = r
		s.reg.invalidate(e)
		e.busy = true
		gen = e.gen
		return nil
	})
	if err != nil {
		return view, err
	}

	stop := trackProgress(s.notifier, s.deps.ProgressInterval, sessionID, "submit_file", createMessages)
	callCtx, cancel := s.detach(ctx)
	err = s.deps.Files.CreateFile(callCtx, record)
	cancel()
	stop()

	return s.update(sessionID, "file_result", func(e *entry) error {
		st, ok := e.state.(FileStep)
		if !ok || e.gen != gen {
			return errSuperseded
		}
		e.busy = false
		if err != nil {
			e.state = st.Fail(err.Error())
			return err
		}
		e.state = st.Complete(record)
		s.logger.Info().Str("session_id", sessionID).Str("project_id", record.ProjectID).Msg("Project submission completed")
		return nil
	})
}

// Close closes the wizard. Losing entered data needs confirmed; closing before completion resets.
func (s *Service) Close(sessionID string, confirmed bool) (View, error) {
	return s.update(sessionID, "close", func(e *entry) error {
		next, err := Close(e.state, confirmed, e.user, e.schoolID)
		if err != nil {
			return err
		}
		if _, done := next.(CompleteStep); !done {
			s.reg.invalidate(e)
			e.options.Departments = nil
			e.options.Supervisors = nil
		}
		e.state = next
		return nil
	})
}

// Forget drops the session's wizard. The session manager calls it whenever a session ends.
func (s *Service) Forget(sessionID string) {
	s.reg.remove(sessionID)
}

// Sessions lists the sessions that hold a wizard
func (s *Service) Sessions() []string {
	return s.reg.ids()
}

// CheckSchool refuses actions addressed to a school other than the one the wizard was opened for.
// A session without a wizard passes; the action itself reports that.
func (s *Service) CheckSchool(sessionID, schoolID string) error {
	if opened, ok := s.reg.school(sessionID); ok && opened != schoolID {
		return errOtherSchool
	}
	return nil
}
