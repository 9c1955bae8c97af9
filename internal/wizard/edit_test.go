package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

var editRef = ProjectRef{SchoolID: "s1", CollegeID: "C1", DepartmentID: "D1", ProjectID: "P1"}

func existingProject() *models.Project {
	abstract := "Old abstract"
	return &models.Project{
		ID:           "P1",
		Title:        "Old title",
		Abstract:     &abstract,
		DepartmentID: "D1",
		SchoolID:     "s1",
		Year:         2023,
		Supervisor:   &models.Supervisor{ID: "S1", Name: "Dr. Smith"},
	}
}

func newEditFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.backend.On("GetProjectByID", mock.Anything, "s1", "C1", "D1", "P1").Return(existingProject(), nil)
	return f
}

func TestService_OpenEditPrepopulates(t *testing.T) {
	f := newEditFixture(t)

	panel, err := f.svc.OpenEdit(context.Background(), testUser, editRef, "", "")
	require.NoError(t, err)

	assert.Equal(t, "P1", panel.ProjectID)
	assert.Equal(t, "Old title", panel.Form.Title)
	assert.Equal(t, "Old abstract", panel.Form.Abstract)
	assert.Equal(t, "2023", panel.Form.Year)
	assert.Equal(t, "D1", panel.Form.DepartmentID)
	assert.Empty(t, panel.Form.CollegeID)
	assert.Equal(t, "S1", panel.Form.Supervisor.ID)

	assert.Len(t, panel.Options.Colleges, 1)
	assert.Empty(t, panel.Options.Departments)
	assert.Len(t, panel.Options.Supervisors, 1)
	f.backend.AssertNotCalled(t, "GetAllDepartments", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_OpenEditLoadsDepartmentsForChosenCollege(t *testing.T) {
	f := newEditFixture(t)

	panel, err := f.svc.OpenEdit(context.Background(), testUser, editRef, "C1", "")
	require.NoError(t, err)
	assert.Len(t, panel.Options.Departments, 1)
}

func TestService_OpenEditMissingProject(t *testing.T) {
	f := newFixture(t)
	notFound := &apperrors.APIError{Status: 404, Message: "Project not found"}
	f.backend.On("GetProjectByID", mock.Anything, "s1", "C1", "D1", "P1").Return(nil, notFound)

	_, err := f.svc.OpenEdit(context.Background(), testUser, editRef, "", "")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestService_SubmitEditKeepsExistingSupervisor(t *testing.T) {
	f := newEditFixture(t)
	f.backend.On("UpdateProject", mock.Anything, "s1", "P1", mock.MatchedBy(func(p models.ProjectPayload) bool {
		return p.Title == "New title" && p.Year == "2024" && p.DepartmentID == "D1" &&
			p.SupervisorID == "S1" && p.NewSupervisor == nil
	})).Return(nil).Once()

	err := f.svc.SubmitEdit(context.Background(), "sess", testUser, editRef, dto.EditProjectRequest{
		Title: "New title",
		Year:  "2024",
	})
	require.NoError(t, err)
	f.backend.AssertExpectations(t)

	progress := f.notifier.progress()
	require.NotEmpty(t, progress)
	assert.True(t, progress[len(progress)-1].Done)
}

func TestService_SubmitEditWithNewSupervisor(t *testing.T) {
	f := newEditFixture(t)
	f.backend.On("UpdateProject", mock.Anything, "s1", "P1", mock.MatchedBy(func(p models.ProjectPayload) bool {
		return p.SupervisorID == "" && p.NewSupervisor != nil && p.NewSupervisor.Name == "Dr. New"
	})).Return(nil).Once()

	err := f.svc.SubmitEdit(context.Background(), "sess", testUser, editRef, dto.EditProjectRequest{
		Title:             "Old title",
		Year:              "2023",
		CreateNew:         true,
		NewSupervisorName: "Dr. New",
	})
	require.NoError(t, err)
	f.backend.AssertExpectations(t)
}

func TestService_SubmitEditInvalidNeverCallsBackend(t *testing.T) {
	f := newEditFixture(t)

	err := f.svc.SubmitEdit(context.Background(), "sess", testUser, editRef, dto.EditProjectRequest{
		Title: "   ",
		Year:  "2023",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	f.backend.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitEditBackendFailure(t *testing.T) {
	f := newEditFixture(t)
	cause := errors.New("boom")
	f.backend.On("UpdateProject", mock.Anything, "s1", "P1", mock.Anything).Return(cause)

	err := f.svc.SubmitEdit(context.Background(), "sess", testUser, editRef, dto.EditProjectRequest{
		Title: "New title",
		Year:  "2024",
	})
	require.Error(t, err)
	assert.Equal(t, MsgUpdateFailed, err.Error())
	assert.ErrorIs(t, err, cause)
}
