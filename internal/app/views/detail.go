package views

import (
	"strings"

	"github.com/yigit/fypdash/internal/app/models"
)

// Tabs of the project detail page
const (
	TabOverview  = "overview"
	TabFullText  = "fulltext"
	TabResources = "resources"
	TabRelated   = "related"
)

// Tabs lists the detail tabs in display order
var Tabs = []string{TabOverview, TabFullText, TabResources, TabRelated}

// NormalizeTab returns tab when it is known, otherwise the overview tab
func NormalizeTab(tab string) string {
	for _, t := range Tabs {
		if t == tab {
			return tab
		}
	}
	return TabOverview
}

// ProjectDetail is the project detail page
type ProjectDetail struct {
	Project     models.Project       `json:"project"`
	Authors     string               `json:"authors"`
	Supervisor  string               `json:"supervisor,omitempty"`
	Tags        []string             `json:"tags"`
	Visibility  string               `json:"visibility,omitempty"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
	MainFile    *models.ProjectFile  `json:"mainFile,omitempty"`
	Files       []models.ProjectFile `json:"files"`
	Tab         string               `json:"tab"`
	Tabs        []string             `json:"tabs"`
	ShareURL    string               `json:"shareUrl"`
	EditURL     string               `json:"editUrl"`
	Related     []ProjectCard        `json:"related,omitempty"`
	Breadcrumbs []Breadcrumb         `json:"breadcrumbs"`
}

// ShareURL is the canonical dashboard address of a project
func ShareURL(publicURL string, trail Trail) string {
	return strings.TrimRight(publicURL, "/") + ProjectPath(trail.SchoolID, trail.CollegeID, trail.DepartmentID, trail.ProjectID)
}

// BuildProjectDetail renders the detail page. related is only shown on the related tab.
func BuildProjectDetail(p models.Project, related []models.Project, tab, publicURL string, trail Trail) ProjectDetail {
	tab = NormalizeTab(tab)
	trail.ProjectID = p.ID
	trail.ProjectTitle = p.Title
	if trail.SchoolName == "" && p.School != nil {
		trail.SchoolName = p.School.Name
	}
	if trail.DepartmentName == "" && p.Department != nil {
		trail.DepartmentName = p.Department.Name
	}

	files := p.Files
	if files == nil {
		files = []models.ProjectFile{}
	}

	detail := ProjectDetail{
		Project:     p,
		Authors:     p.AuthorNames(),
		Supervisor:  p.SupervisorName(),
		Tags:        p.TagNames(),
		Visibility:  strings.ToLower(p.Visibility),
		CreatedAt:   models.DisplayDate(p.CreatedAt),
		UpdatedAt:   models.DisplayDate(p.UpdatedAt),
		MainFile:    p.MainFile(),
		Files:       files,
		Tab:         tab,
		Tabs:        Tabs,
		ShareURL:    ShareURL(publicURL, trail),
		EditURL:     ProjectPath(trail.SchoolID, trail.CollegeID, trail.DepartmentID, p.ID) + "/edit",
		Breadcrumbs: Breadcrumbs(trail),
	}

	if tab == TabRelated {
		detail.Related = make([]ProjectCard, 0, len(related))
		for _, r := range related {
			detail.Related = append(detail.Related, NewProjectCard(r, ""))
		}
	}
	return detail
}
