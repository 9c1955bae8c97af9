package views

import (
	"strings"

	"github.com/yigit/fypdash/internal/app/models"
)

// CollegeCard is one college of the college list
type CollegeCard struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Image           string `json:"image,omitempty"`
	DepartmentCount int    `json:"departmentCount"`
	ProjectCount    int    `json:"projectCount"`
}

// CollegeList is the college list page
type CollegeList struct {
	Search      string        `json:"search"`
	Colleges    []CollegeCard `json:"colleges"`
	Breadcrumbs []Breadcrumb  `json:"breadcrumbs"`
}

// BuildCollegeList totals each college's department counters and keeps the colleges whose name contains search
func BuildCollegeList(colleges []models.College, search string, trail Trail) CollegeList {
	search = strings.TrimSpace(search)
	cards := make([]CollegeCard, 0, len(colleges))
	for _, c := range colleges {
		if search != "" && !containsFold(c.Name, search) {
			continue
		}
		cards = append(cards, CollegeCard{
			ID:              c.ID,
			Name:            c.Name,
			Image:           c.Image,
			DepartmentCount: len(c.Departments),
			ProjectCount:    c.ProjectTotal(),
		})
	}

	return CollegeList{
		Search:      search,
		Colleges:    cards,
		Breadcrumbs: Breadcrumbs(trail),
	}
}

// CollegeName finds a college's name in a list, or returns ""
func CollegeName(colleges []models.College, id string) string {
	for _, c := range colleges {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
