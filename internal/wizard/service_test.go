package wizard

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/filestorage"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetAllColleges(ctx context.Context, schoolID string) ([]models.College, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]models.College), args.Error(1)
}

func (m *mockBackend) GetAllDepartments(ctx context.Context, schoolID, collegeID string) ([]models.Department, error) {
	args := m.Called(ctx, schoolID, collegeID)
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *mockBackend) GetAllSupervisors(ctx context.Context, departmentID string) ([]models.Supervisor, error) {
	args := m.Called(ctx, departmentID)
	return args.Get(0).([]models.Supervisor), args.Error(1)
}

func (m *mockBackend) GetProjectByID(ctx context.Context, schoolID, collegeID, departmentID, projectID string) (*models.Project, error) {
	args := m.Called(ctx, schoolID, collegeID, departmentID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockBackend) CreateProject(ctx context.Context, schoolID string, payload models.ProjectPayload) (*models.Project, error) {
	args := m.Called(ctx, schoolID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockBackend) UpdateProject(ctx context.Context, schoolID, projectID string, payload models.ProjectPayload) error {
	args := m.Called(ctx, schoolID, projectID, payload)
	return args.Error(0)
}

func (m *mockBackend) CreateFile(ctx context.Context, payload models.FilePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, upload filestorage.Upload) (string, error) {
	content, _ := io.ReadAll(upload.Content)
	args := m.Called(ctx, upload.Filename, string(content))
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Name() string { return "mock" }

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Publish(_ string, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{eventType, payload})
}

func (n *recordingNotifier) progress() []Progress {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Progress
	for _, e := range n.events {
		if p, ok := e.payload.(Progress); ok {
			out = append(out, p)
		}
	}
	return out
}

type fixture struct {
	svc      *Service
	backend  *mockBackend
	uploader *mockUploader
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend:  &mockBackend{},
		uploader: &mockUploader{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(Dependencies{
		Colleges:         f.backend,
		Departments:      f.backend,
		Projects:         f.backend,
		Files:            f.backend,
		Uploader:         f.uploader,
		Notifier:         f.notifier,
		Logger:           zerolog.Nop(),
		ProgressInterval: time.Hour,
	})
	// Option lists are optional so tests that skip them can still AssertExpectations
	f.backend.On("GetAllColleges", mock.Anything, "s1").Return([]models.College{{ID: "C1", Name: "Engineering"}}, nil).Maybe()
	f.backend.On("GetAllDepartments", mock.Anything, "s1", "C1").Return([]models.Department{{ID: "D1", Name: "CS"}}, nil).Maybe()
	f.backend.On("GetAllSupervisors", mock.Anything, "D1").Return([]models.Supervisor{{ID: "S1", Name: "Dr. Smith"}}, nil).Maybe()
	return f
}

// fillDetails opens the wizard and completes step one with supervisor S1
func (f *fixture) fillDetails(t *testing.T, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Open(ctx, sessionID, testUser, "s1")
	require.NoError(t, err)
	_, err = f.svc.SelectCollege(ctx, sessionID, "C1")
	require.NoError(t, err)
	_, err = f.svc.SelectDepartment(ctx, sessionID, "D1")
	require.NoError(t, err)
	_, err = f.svc.SelectSupervisor(sessionID, "S1")
	require.NoError(t, err)
	_, err = f.svc.UpdateDetails(sessionID, dto.ProjectDetailsRequest{Title: "Thesis A", Year: "2024"})
	require.NoError(t, err)
}

func TestService_OpenLoadsColleges(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)

	assert.Equal(t, StepDetails, view.Step)
	require.NotNil(t, view.Form)
	assert.Equal(t, []string{"u1"}, view.Form.AuthorIDs)
	assert.Equal(t, "s1", view.Form.SchoolID)
	assert.Len(t, view.Options.Colleges, 1)
}

func TestService_ActionsRequireOpenWizard(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SelectSupervisor("nobody", "S1")
	assert.True(t, errors.Is(err, apperrors.ErrWizardState))
}

func TestService_SelectCollegeClearsBeforeFetchResolves(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")

	release := make(chan struct{})
	f.backend.On("GetAllDepartments", mock.Anything, "s1", "C2").
		Run(func(mock.Arguments) { <-release }).
		Return([]models.Department{{ID: "D7"}}, nil)

	done := make(chan View)
	go func() {
		view, _ := f.svc.SelectCollege(context.Background(), "sess", "C2")
		done <- view
	}()

	require.Eventually(t, func() bool {
		view, err := f.svc.State("sess")
		return err == nil && view.Form.CollegeID == "C2"
	}, time.Second, 5*time.Millisecond)

	view, err := f.svc.State("sess")
	require.NoError(t, err)
	assert.Empty(t, view.Form.DepartmentID)
	assert.False(t, view.Form.Supervisor.Resolved())
	assert.Empty(t, view.Options.Departments)
	assert.Empty(t, view.Options.Supervisors)

	close(release)
	final := <-done
	require.Len(t, final.Options.Departments, 1)
	assert.Equal(t, "D7", final.Options.Departments[0].ID)
}

func TestService_StaleDepartmentFetchIsIgnored(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)

	release := make(chan struct{})
	f.backend.On("GetAllDepartments", mock.Anything, "s1", "C-slow").
		Run(func(mock.Arguments) { <-release }).
		Return([]models.Department{{ID: "stale"}}, nil)

	done := make(chan struct{})
	go func() {
		_, _ = f.svc.SelectCollege(context.Background(), "sess", "C-slow")
		close(done)
	}()
	require.Eventually(t, func() bool {
		view, _ := f.svc.State("sess")
		return view.Form != nil && view.Form.CollegeID == "C-slow"
	}, time.Second, 5*time.Millisecond)

	_, err = f.svc.SelectCollege(context.Background(), "sess", "C1")
	require.NoError(t, err)
	close(release)
	<-done

	view, err := f.svc.State("sess")
	require.NoError(t, err)
	assert.Equal(t, "C1", view.Form.CollegeID)
	require.Len(t, view.Options.Departments, 1)
	assert.Equal(t, "D1", view.Options.Departments[0].ID)
}

func TestService_SubmitDetailsWithExistingSupervisor(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")

	expected := models.ProjectPayload{
		Title:        "Thesis A",
		AuthorIDs:    []string{"u1"},
		DepartmentID: "D1",
		SchoolID:     "s1",
		Year:         "2024",
		SupervisorID: "S1",
	}
	f.backend.On("CreateProject", mock.Anything, "s1", expected).Return(&models.Project{ID: "p1"}, nil).Once()

	view, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, StepFile, view.Step)
	assert.Equal(t, "p1", view.ProjectID)
	f.backend.AssertExpectations(t)

	progress := f.notifier.progress()
	require.NotEmpty(t, progress)
	assert.Equal(t, "Uploading...", progress[0].Message)
	assert.True(t, progress[len(progress)-1].Done)
}

func TestService_SubmitDetailsWithNewSupervisor(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	_, err := f.svc.SetSupervisorMode("sess", true)
	require.NoError(t, err)
	_, err = f.svc.UpdateDetails("sess", dto.ProjectDetailsRequest{Title: "Thesis A", Year: "2024", NewSupervisorName: "Dr. X"})
	require.NoError(t, err)

	var sent models.ProjectPayload
	f.backend.On("CreateProject", mock.Anything, "s1", mock.AnythingOfType("models.ProjectPayload")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(models.ProjectPayload) }).
		Return(&models.Project{ID: "p2"}, nil).Once()

	view, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, StepFile, view.Step)
	assert.Empty(t, sent.SupervisorID)
	require.NotNil(t, sent.NewSupervisor)
	assert.Equal(t, "Dr. X", sent.NewSupervisor.Name)
}

func TestService_SubmitDetailsInvalidStaysOnStepOne(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)

	view, err := f.svc.SubmitDetails(context.Background(), "sess")
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, StepDetails, view.Step)
	assert.Equal(t, MsgRequiredFields, view.Error)
	f.backend.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitDetailsBackendFailure(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	backendErr := &apperrors.APIError{Status: 400, Message: "Title already exists"}
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(nil, backendErr).Once()

	view, err := f.svc.SubmitDetails(context.Background(), "sess")
	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, StepDetails, view.Step)
	assert.Equal(t, "Title already exists", view.Error)
	assert.Empty(t, view.ProjectID)
	assert.False(t, view.Busy)
}

func TestService_BackThenResubmitUpdatesProject(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	_, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)

	view, err := f.svc.Back("sess")
	require.NoError(t, err)
	assert.Equal(t, StepDetails, view.Step)
	assert.Equal(t, "p1", view.ProjectID)

	_, err = f.svc.UpdateDetails("sess", dto.ProjectDetailsRequest{Title: "Thesis B", Year: "2024"})
	require.NoError(t, err)
	f.backend.On("UpdateProject", mock.Anything, "s1", "p1", mock.MatchedBy(func(p models.ProjectPayload) bool {
		return p.Title == "Thesis B"
	})).Return(nil).Once()

	view, err = f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, StepFile, view.Step)
	assert.Equal(t, "p1", view.ProjectID)
	f.backend.AssertNumberOfCalls(t, "CreateProject", 1)
}

func TestService_FileFlow(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	_, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)

	_, err = f.svc.SubmitFile(context.Background(), "sess")
	assert.ErrorIs(t, err, apperrors.ErrNoFileSelected)

	view, err := f.svc.SelectFile("sess", pdf(1024))
	require.NoError(t, err)
	assert.True(t, view.CanUpload)
	assert.False(t, view.CanSubmit)

	_, err = f.svc.SubmitFile(context.Background(), "sess")
	assert.ErrorIs(t, err, apperrors.ErrFileNotUploaded)

	f.uploader.On("Upload", mock.Anything, "thesis.pdf", "%PDF-1.7").Return("https://media.example/thesis.pdf", nil).Once()
	view, err = f.svc.Upload(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example/thesis.pdf", view.UploadedPath)
	assert.True(t, view.CanSubmit)

	record := models.FilePayload{
		Filename:  "thesis.pdf",
		Path:      "https://media.example/thesis.pdf",
		Mimetype:  "application/pdf",
		Size:      1024,
		ProjectID: "p1",
	}
	f.backend.On("CreateFile", mock.Anything, record).Return(nil).Once()
	view, err = f.svc.SubmitFile(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, StepComplete, view.Step)
	f.backend.AssertExpectations(t)
	f.uploader.AssertExpectations(t)

	// closing a finished wizard needs no confirmation and keeps it finished
	view, err = f.svc.Close("sess", false)
	require.NoError(t, err)
	assert.Equal(t, StepComplete, view.Step)

	// opening again starts over
	view, err = f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepDetails, view.Step)
}

func TestService_OversizedFileNeverReachesUploader(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	_, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)

	view, err := f.svc.SelectFile("sess", SelectedFile{Filename: "big.pdf", Mimetype: "application/pdf", Size: 25 * 1024 * 1024})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Equal(t, "File size exceeds 20MB limit", view.Error)
	assert.False(t, view.CanUpload)
	assert.False(t, view.CanSubmit)

	_, err = f.svc.Upload(context.Background(), "sess")
	assert.ErrorIs(t, err, apperrors.ErrNoFileSelected)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UploadFailureAllowsRetry(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	_, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)
	_, err = f.svc.SelectFile("sess", pdf(10))
	require.NoError(t, err)

	uploadErr := apperrors.NewUploadError("Failed to upload file. Please try again.", errors.New("boom"))
	f.uploader.On("Upload", mock.Anything, "thesis.pdf", mock.Anything).Return("", uploadErr).Once()
	view, err := f.svc.Upload(context.Background(), "sess")
	assert.True(t, errors.Is(err, apperrors.ErrUploadFailed))
	assert.Equal(t, "Failed to upload file. Please try again.", view.Error)
	assert.True(t, view.CanUpload)

	f.uploader.On("Upload", mock.Anything, "thesis.pdf", mock.Anything).Return("https://media.example/t.pdf", nil).Once()
	view, err = f.svc.Upload(context.Background(), "sess")
	require.NoError(t, err)
	assert.True(t, view.CanSubmit)
}

func TestService_RemoveFileDuringUploadDiscardsResult(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")
	f.backend.On("CreateProject", mock.Anything, "s1", mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	_, err := f.svc.SubmitDetails(context.Background(), "sess")
	require.NoError(t, err)
	_, err = f.svc.SelectFile("sess", pdf(10))
	require.NoError(t, err)

	release := make(chan struct{})
	f.uploader.On("Upload", mock.Anything, "thesis.pdf", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return("https://media.example/late.pdf", nil).Once()

	done := make(chan error)
	go func() {
		_, err := f.svc.Upload(context.Background(), "sess")
		done <- err
	}()
	require.Eventually(t, func() bool {
		view, _ := f.svc.State("sess")
		return view.Uploading
	}, time.Second, 5*time.Millisecond)

	view, err := f.svc.RemoveFile("sess")
	require.NoError(t, err)
	assert.Nil(t, view.File)

	close(release)
	assert.True(t, errors.Is(<-done, apperrors.ErrWizardState))

	view, err = f.svc.State("sess")
	require.NoError(t, err)
	assert.Empty(t, view.UploadedPath)
	assert.False(t, view.Busy)
}

func TestService_CloseRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	f.fillDetails(t, "sess")

	view, err := f.svc.Close("sess", false)
	assert.True(t, errors.Is(err, apperrors.ErrConfirmationNeeded))
	assert.Equal(t, "Thesis A", view.Form.Title)

	view, err = f.svc.Close("sess", true)
	require.NoError(t, err)
	assert.Equal(t, StepDetails, view.Step)
	assert.Empty(t, view.Form.Title)
	assert.Empty(t, view.Form.DepartmentID)
}

func TestService_Forget(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.svc.reg.len())

	assert.Equal(t, []string{"sess"}, f.svc.Sessions())

	f.svc.Forget("sess")
	assert.Equal(t, 0, f.svc.reg.len())
	assert.Empty(t, f.svc.Sessions())
}

func TestService_CheckSchool(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.CheckSchool("sess", "s2"))

	_, err := f.svc.Open(context.Background(), "sess", testUser, "s1")
	require.NoError(t, err)

	assert.NoError(t, f.svc.CheckSchool("sess", "s1"))
	err = f.svc.CheckSchool("sess", "s2")
	assert.ErrorIs(t, err, apperrors.ErrWizardState)
}

func TestTrackProgressRotates(t *testing.T) {
	n := &recordingNotifier{}
	stop := trackProgress(n, 10*time.Millisecond, "sess", "upload", createMessages)
	require.Eventually(t, func() bool { return len(n.progress()) >= 3 }, time.Second, 5*time.Millisecond)
	stop()
	stop()

	progress := n.progress()
	assert.Equal(t, "Uploading...", progress[0].Message)
	assert.Equal(t, "Still working...", progress[1].Message)
	assert.Equal(t, "Almost there...", progress[2].Message)
	assert.True(t, progress[len(progress)-1].Done)

	count := len(progress)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, n.progress(), count)
}
