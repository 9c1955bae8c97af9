package views

import (
	"strings"

	"github.com/yigit/fypdash/internal/app/models"
)

// TagVocabulary is the fixed list of popular tags offered on the department page
var TagVocabulary = []string{
	"Machine Learning",
	"Data Science",
	"IoT",
	"Robotics",
	"Sustainability",
	"Software Engineering",
	"Artificial Intelligence",
	"Virtual Reality",
	"Networks",
	"Cybersecurity",
}

// TagOption is a tag chip of the department page
type TagOption struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// DepartmentCard is one department of the department list
type DepartmentCard struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectCount int    `json:"projectCount"`
}

// DepartmentList is the department list page.
// SelectedTags is only echoed back: it does not filter departments and is not sent to the backend.
type DepartmentList struct {
	Search       string           `json:"search"`
	Departments  []DepartmentCard `json:"departments"`
	Tags         []TagOption      `json:"tags"`
	SelectedTags []string         `json:"selectedTags"`
	Breadcrumbs  []Breadcrumb     `json:"breadcrumbs"`
}

// BuildDepartmentList keeps the departments whose name contains search and marks the selected tags
func BuildDepartmentList(departments []models.Department, search string, selectedTags []string, trail Trail) DepartmentList {
	search = strings.TrimSpace(search)
	cards := make([]DepartmentCard, 0, len(departments))
	for _, d := range departments {
		if search != "" && !containsFold(d.Name, search) {
			continue
		}
		cards = append(cards, DepartmentCard{
			ID:           d.ID,
			Name:         d.Name,
			ProjectCount: d.Count.Projects,
		})
	}

	selected := SelectTags(selectedTags)
	isSelected := make(map[string]bool, len(selected))
	for _, t := range selected {
		isSelected[t] = true
	}

	tags := make([]TagOption, 0, len(TagVocabulary))
	for _, t := range TagVocabulary {
		tags = append(tags, TagOption{
			Name:     t,
			Label:    "#" + strings.Join(strings.Fields(t), ""),
			Selected: isSelected[t],
		})
	}

	return DepartmentList{
		Search:       search,
		Departments:  cards,
		Tags:         tags,
		SelectedTags: selected,
		Breadcrumbs:  Breadcrumbs(trail),
	}
}

// SelectTags keeps the vocabulary tags of requested, once each, in request order
func SelectTags(requested []string) []string {
	known := make(map[string]bool, len(TagVocabulary))
	for _, t := range TagVocabulary {
		known[t] = true
	}

	selected := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, t := range requested {
		if !known[t] || seen[t] {
			continue
		}
		seen[t] = true
		selected = append(selected, t)
	}
	return selected
}

// DepartmentName finds a department's name in a list, or returns ""
func DepartmentName(departments []models.Department, id string) string {
	for _, d := range departments {
		if d.ID == id {
			return d.Name
		}
	}
	return ""
}
