package services

import (
	"context"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
)

// CollegeService lists colleges of a school
type CollegeService struct {
	client *apiclient.Client
}

// NewCollegeService creates a new CollegeService
func NewCollegeService(client *apiclient.Client) *CollegeService {
	return &CollegeService{client: client}
}

// GetAllColleges returns the colleges of a school with their departments' project counters
func (s *CollegeService) GetAllColleges(ctx context.Context, schoolID string) ([]models.College, error) {
	var colleges []models.College
	if err := s.client.Get(ctx, routeColleges, &colleges, schoolID); err != nil {
		return nil, err
	}
	return colleges, nil
}
