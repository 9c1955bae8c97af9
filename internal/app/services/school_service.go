package services

import (
	"context"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
)

// SchoolService lists schools
type SchoolService struct {
	client *apiclient.Client
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(client *apiclient.Client) *SchoolService {
	return &SchoolService{client: client}
}

// GetAllSchools returns every school
func (s *SchoolService) GetAllSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := s.client.Get(ctx, routeSchools, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// FindSchoolName scans the school list for id. An unknown id yields "".
func (s *SchoolService) FindSchoolName(ctx context.Context, id string) (string, error) {
	schools, err := s.GetAllSchools(ctx)
	if err != nil {
		return "", err
	}
	for _, school := range schools {
		if school.ID == id {
			return school.Name, nil
		}
	}
	return "", nil
}
