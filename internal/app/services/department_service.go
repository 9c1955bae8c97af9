package services

import (
	"context"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
)

// DepartmentService lists departments and their supervisors
type DepartmentService struct {
	client *apiclient.Client
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(client *apiclient.Client) *DepartmentService {
	return &DepartmentService{client: client}
}

// GetAllDepartments returns the departments of a college
func (s *DepartmentService) GetAllDepartments(ctx context.Context, schoolID, collegeID string) ([]models.Department, error) {
	var departments []models.Department
	if err := s.client.Get(ctx, routeDepartments, &departments, schoolID, collegeID); err != nil {
		return nil, err
	}
	return departments, nil
}

// GetAllSupervisors returns the supervisors of a department
func (s *DepartmentService) GetAllSupervisors(ctx context.Context, departmentID string) ([]models.Supervisor, error) {
	var resp struct {
		Supervisors []models.Supervisor `json:"supervisors"`
	}
	if err := s.client.Get(ctx, routeSupervisors, &resp, departmentID); err != nil {
		return nil, err
	}
	if resp.Supervisors == nil {
		return []models.Supervisor{}, nil
	}
	return resp.Supervisors, nil
}
