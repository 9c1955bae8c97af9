package dto

import "github.com/yigit/fypdash/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a signup request
type RegisterRequest struct {
	FirstName    string          `json:"firstName" binding:"required"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required"`
	Role         models.RoleType `json:"role" binding:"required,oneof=STUDENT FACULTY"`
	SchoolID     string          `json:"schoolId" binding:"required"`
	DepartmentID string          `json:"departmentId,omitempty"`
}

// AuthResponse is what the backend returns for login and register
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AuthResult is returned to the client after a successful login or signup
type AuthResult struct {
	User     models.User `json:"user"`
	Redirect string      `json:"redirect" example:"/school/1/college"`
}

// AuthPageView backs the login and signup pages
type AuthPageView struct {
	Schools []models.School   `json:"schools,omitempty"`
	Roles   []models.RoleType `json:"roles,omitempty"`
}

// SessionSummary is the session information exposed to pages
type SessionSummary struct {
	User       *models.User `json:"user,omitempty"`
	SchoolName string       `json:"schoolName"`
	Hydrated   bool         `json:"hydrated"`
}

// LandingView backs the school dashboard landing page
type LandingView struct {
	Schools      []models.School `json:"schools"`
	CollegesHref string          `json:"collegesHref" example:"/school/1/college"`
}
