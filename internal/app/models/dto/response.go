package dto

import "time"

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewAPIResponse wraps data in the standard envelope
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// RedirectResponse tells the client where to navigate next
type RedirectResponse struct {
	Message  string `json:"message,omitempty" example:"Login successful"`
	Redirect string `json:"redirect" example:"/school/1/college"`
}

// ReloadResponse tells the client to reload the current page
type ReloadResponse struct {
	Message string `json:"message" example:"Project updated successfully!"`
	Reload  bool   `json:"reload" example:"true"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"memory"`
}

// Page is a rendered page together with the session summary shown in the header
type Page struct {
	Session SessionSummary `json:"session"`
	View    interface{}    `json:"view"`
}
