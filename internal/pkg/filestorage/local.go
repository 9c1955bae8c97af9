package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/logger"
	"github.com/yigit/fypdash/internal/pkg/metrics"
)

// LocalStorage writes uploads to the local filesystem and serves them from baseURL.
// It stands in for the media host during development.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // URL prefix the router serves basePath under
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath when missing
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Name implements Uploader
func (ls *LocalStorage) Name() string {
	return "local"
}

// Upload copies the content under a unique name and returns its URL
func (ls *LocalStorage) Upload(ctx context.Context, upload Upload) (string, error) {
	if upload.Content == nil {
		return "", apperrors.ErrNoFileSelected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Generate a unique filename to prevent collisions
	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(upload.Filename))
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		metrics.IncrementUpload("error")
		return "", apperrors.NewUploadError(uploadFailedMessage, err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, upload.Content); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		metrics.IncrementUpload("error")
		return "", apperrors.NewUploadError(uploadFailedMessage, err)
	}

	accessiblePath := ls.baseURL + "/" + uniqueFilename
	metrics.IncrementUpload("success")
	logger.Info().Str("filename", upload.Filename).Str("saved_as", uniqueFilename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// GetFullPath returns the filesystem path behind a URL returned by Upload
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	filename := filepath.Base(fileURL)
	if filename == "" || filename == "." || filename == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
