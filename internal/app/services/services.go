// Package services wraps the projects backend: one method per endpoint, path params in, parsed models out.
// Backend errors are passed through untouched so handlers can show the backend's message.
package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
)

// Backend routes
const (
	routeLogin           = "/auth/login"
	routeRegister        = "/auth/register"
	routeSchools         = "/school"
	routeColleges        = "/school/:schoolId/college"
	routeDepartments     = "/school/:schoolId/college/:collegeId/departments"
	routeSupervisors     = "/school/project/department/:departmentId/supervisors"
	routeProjects        = "/school/:schoolId/college/:collegeId/department/:departmentId/project"
	routeProject         = "/school/:schoolId/college/:collegeId/department/:departmentId/project/:projectId"
	routeCreateProject   = "/school/:schoolId/project"
	routeUpdateProject   = "/school/:schoolId/project/:projectId"
	routeRelated         = "/school/:schoolId/project/:projectId/related"
	routeRelatedDetailed = "/school/:schoolId/project/:projectId/related/detailed"
	routeFiles           = "/file"
)

// Services bundles every backend-facing service
type Services struct {
	Auth       *AuthService
	School     *SchoolService
	College    *CollegeService
	Department *DepartmentService
	Project    *ProjectService
	File       *FileService
}

// New builds all services on one client
func New(client *apiclient.Client, logger zerolog.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(client, logger),
		School:     NewSchoolService(client),
		College:    NewCollegeService(client),
		Department: NewDepartmentService(client),
		Project:    NewProjectService(client, logger),
		File:       NewFileService(client),
	}
}
