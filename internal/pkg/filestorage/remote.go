package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/metrics"
)

const uploadFailedMessage = "Failed to upload file. Please try again."

// MediaHost uploads files to an unsigned-preset media hosting endpoint.
// The form carries the file and the preset; the answer carries secure_url.
type MediaHost struct {
	url        string
	preset     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewMediaHost creates an uploader for the given endpoint and preset
func NewMediaHost(url, preset string, timeout time.Duration, logger zerolog.Logger) *MediaHost {
	return &MediaHost{
		url:        url,
		preset:     preset,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "mediahost").Logger(),
	}
}

// Name implements Uploader
func (m *MediaHost) Name() string {
	return "remote"
}

type mediaHostResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload posts the file and returns the secure URL from the response
func (m *MediaHost) Upload(ctx context.Context, upload Upload) (string, error) {
	if upload.Content == nil {
		return "", apperrors.ErrNoFileSelected
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", upload.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	if err := form.WriteField("upload_preset", m.preset); err != nil {
		return "", fmt.Errorf("failed to write upload preset: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Error().Err(err).Str("filename", upload.Filename).Msg("Upload request failed")
		metrics.IncrementUpload("error")
		return "", apperrors.NewUploadError(uploadFailedMessage, err)
	}
	defer resp.Body.Close()

	var parsed mediaHostResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("media host responded with status %d", resp.StatusCode)
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			cause = fmt.Errorf("media host responded with status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		m.logger.Warn().Err(cause).Str("filename", upload.Filename).Msg("Media host rejected upload")
		metrics.IncrementUpload("rejected")
		return "", apperrors.NewUploadError(uploadFailedMessage, cause)
	}
	if decodeErr != nil || parsed.SecureURL == "" {
		m.logger.Warn().Str("filename", upload.Filename).Msg("Media host response carried no secure_url")
		metrics.IncrementUpload("error")
		return "", apperrors.NewUploadError(uploadFailedMessage, fmt.Errorf("missing secure_url in media host response"))
	}

	metrics.IncrementUpload("success")
	m.logger.Info().
		Str("filename", upload.Filename).
		Int64("size", upload.Size).
		Dur("elapsed", time.Since(start)).
		Msg("File uploaded")
	return parsed.SecureURL, nil
}
