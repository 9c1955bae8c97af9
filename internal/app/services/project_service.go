package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// ProjectService reads and writes projects
type ProjectService struct {
	client *apiclient.Client
	logger zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(client *apiclient.Client, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		client: client,
		logger: logger,
	}
}

type projectEnvelope struct {
	Data *models.Project `json:"data"`
}

// GetAllProjects returns the projects of a department
func (s *ProjectService) GetAllProjects(ctx context.Context, schoolID, collegeID, departmentID string) ([]models.Project, error) {
	var projects []models.Project
	if err := s.client.Get(ctx, routeProjects, &projects, schoolID, collegeID, departmentID); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectByID returns one project with authors, supervisor and files
func (s *ProjectService) GetProjectByID(ctx context.Context, schoolID, collegeID, departmentID, projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.client.Get(ctx, routeProject, &project, schoolID, collegeID, departmentID, projectID); err != nil {
		return nil, err
	}
	if project.ID == "" {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}
	return &project, nil
}

// CreateProject creates a project and returns it; only the id is guaranteed to be set
func (s *ProjectService) CreateProject(ctx context.Context, schoolID string, payload models.ProjectPayload) (*models.Project, error) {
	var resp projectEnvelope
	if err := s.client.Post(ctx, routeCreateProject, payload, &resp, schoolID); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrBackendUnavailable, "Project creation failed - no ID returned")
	}

	s.logger.Info().Str("projectId", resp.Data.ID).Str("schoolId", schoolID).Msg("Project created")
	return resp.Data, nil
}

// UpdateProject replaces the editable fields of a project
func (s *ProjectService) UpdateProject(ctx context.Context, schoolID, projectID string, payload models.ProjectPayload) error {
	if err := s.client.Put(ctx, routeUpdateProject, payload, nil, schoolID, projectID); err != nil {
		return err
	}

	s.logger.Info().Str("projectId", projectID).Msg("Project updated")
	return nil
}

// GetRelatedProjects returns projects related to projectID; detailed asks for the expanded variant
func (s *ProjectService) GetRelatedProjects(ctx context.Context, schoolID, projectID string, detailed bool) ([]models.Project, error) {
	route := routeRelated
	if detailed {
		route = routeRelatedDetailed
	}

	var projects []models.Project
	if err := s.client.Get(ctx, route, &projects, schoolID, projectID); err != nil {
		return nil, err
	}
	return projects, nil
}
