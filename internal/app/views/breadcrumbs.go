// Package views turns backend data into the page models served by the dashboard.
// Everything here is pure: search, filters and sorting run on the fetched lists.
package views

import (
	"fmt"
	"strings"
)

// maxCrumbTitle is the longest project title shown in a breadcrumb
const maxCrumbTitle = 30

// Breadcrumb is one link of the navigation trail
type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Trail is the position of a page in the hierarchy; unset levels are skipped
type Trail struct {
	SchoolID       string
	SchoolName     string
	CollegeID      string
	CollegeName    string
	DepartmentID   string
	DepartmentName string
	ProjectID      string
	ProjectTitle   string
}

// Breadcrumbs renders the trail from the school down to the deepest known level
func Breadcrumbs(t Trail) []Breadcrumb {
	if t.SchoolID == "" {
		return nil
	}

	crumbs := []Breadcrumb{{Label: t.SchoolName, Href: CollegesPath(t.SchoolID)}}
	if t.CollegeID == "" {
		return crumbs
	}
	crumbs = append(crumbs, Breadcrumb{Label: t.CollegeName, Href: DepartmentsPath(t.SchoolID, t.CollegeID)})
	if t.DepartmentID == "" {
		return crumbs
	}
	crumbs = append(crumbs,
		Breadcrumb{Label: t.DepartmentName, Href: DepartmentsPath(t.SchoolID, t.CollegeID)},
		Breadcrumb{Label: "Projects", Href: ProjectsPath(t.SchoolID, t.CollegeID, t.DepartmentID)},
	)
	if t.ProjectID == "" {
		return crumbs
	}
	return append(crumbs, Breadcrumb{
		Label: truncate(t.ProjectTitle, maxCrumbTitle),
		Href:  ProjectPath(t.SchoolID, t.CollegeID, t.DepartmentID, t.ProjectID),
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// CollegesPath is the college list of a school
func CollegesPath(schoolID string) string {
	return fmt.Sprintf("/school/%s/college", schoolID)
}

// DepartmentsPath is the department list of a college
func DepartmentsPath(schoolID, collegeID string) string {
	return fmt.Sprintf("/school/%s/college/%s/department", schoolID, collegeID)
}

// ProjectsPath is the project list of a department
func ProjectsPath(schoolID, collegeID, departmentID string) string {
	return fmt.Sprintf("/school/%s/college/%s/department/%s/projects", schoolID, collegeID, departmentID)
}

// ProjectPath is the detail page of a project
func ProjectPath(schoolID, collegeID, departmentID, projectID string) string {
	return fmt.Sprintf("/school/%s/college/%s/department/%s/project/%s", schoolID, collegeID, departmentID, projectID)
}

// containsFold reports whether substr is in s, ignoring case
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
