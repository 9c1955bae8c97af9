package services

import (
	"context"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
)

// FileService records uploaded files against projects
type FileService struct {
	client *apiclient.Client
}

// NewFileService creates a new FileService
func NewFileService(client *apiclient.Client) *FileService {
	return &FileService{client: client}
}

// CreateFile registers an already uploaded file with the backend
func (s *FileService) CreateFile(ctx context.Context, payload models.FilePayload) error {
	return s.client.Post(ctx, routeFiles, payload, nil)
}
