package models

import "strings"

// RoleType represents the role a user signs up with
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleFaculty RoleType = "FACULTY"
)

// Roles lists the roles offered on the signup page
var Roles = []RoleType{RoleStudent, RoleFaculty}

// IsValid reports whether the role is one the backend accepts
func (r RoleType) IsValid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// User is the authenticated user as returned by the backend
type User struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName,omitempty"`
	Email        string   `json:"email"`
	Role         RoleType `json:"role"`
	SchoolID     string   `json:"schoolId"`
	DepartmentID string   `json:"departmentId,omitempty"`
}

// FullName returns first and last name separated by a space
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
