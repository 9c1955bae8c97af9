package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// HandleAPIError maps err to the standard error response.
// A backend 401 or a lost session ends the session and sends the client to the login page.
func HandleAPIError(c *gin.Context, err error) {
	HandleAPIErrorWithData(c, err, nil)
}

// HandleAPIErrorWithData is HandleAPIError for endpoints that still return their current state on failure,
// such as the wizard showing an inline error.
func HandleAPIErrorWithData(c *gin.Context, err error, data interface{}) {
	if isUnauthorized(err) {
		if m, ok := c.Get(contextMiddlewareKey); ok {
			m.(*SessionMiddleware).End(c)
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
		return
	}

	status, detail := errorDetail(err)
	c.AbortWithStatusJSON(status, dto.APIResponse{
		Data:      data,
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func isUnauthorized(err error) bool {
	return apperrors.Is(err, apperrors.ErrUnauthorized,
		apperrors.ErrSessionNotFound,
		apperrors.ErrSessionExpired,
		apperrors.ErrTokenInvalid,
		apperrors.ErrTokenExpired,
	)
}

// errorDetail picks the status code and error detail for err. Messages from the backend and from
// CustomErrors are shown as they are.
func errorDetail(err error) (int, *dto.ErrorDetail) {
	message := err.Error()

	var custom *apperrors.CustomError
	var details map[string]interface{}
	if errors.As(err, &custom) {
		details = custom.Details
	}

	switch {
	case errors.Is(err, apperrors.ErrConfirmationNeeded):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConfirmationRequired, message).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrWizardState):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeWizardState, message)
	case apperrors.Is(err, apperrors.ErrFileTooLarge,
		apperrors.ErrFileType,
		apperrors.ErrNoFileSelected,
		apperrors.ErrFileNotUploaded,
		apperrors.ErrMissingProject,
	):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidFile, message).WithField("file")
	case errors.Is(err, apperrors.ErrUploadFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeUploadFailed, message)
		if details != nil {
			detail = detail.WithDetails(details)
		}
		return http.StatusBadGateway, detail
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		if details != nil {
			detail = detail.WithDetails(details)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message)
	}

	var apiErr *apperrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, message)
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, message)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "The server is not responding. Please try again later.")
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}
