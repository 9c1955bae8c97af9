package views

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/fypdash/internal/app/models"
)

// Sort orders of the project list
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPopular   = "popular"
	SortDownloads = "downloads"
)

// YearAll disables the year filter
const YearAll = "all"

// ProjectCard is one project of a list
type ProjectCard struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract,omitempty"`
	Authors    string   `json:"authors"`
	Supervisor string   `json:"supervisor,omitempty"`
	Year       int      `json:"year"`
	Tags       []string `json:"tags"`
	Views      int      `json:"views"`
	Downloads  int      `json:"downloads"`
	Href       string   `json:"href,omitempty"`
}

// ProjectList is the project list page
type ProjectList struct {
	Search      string        `json:"search"`
	Year        string        `json:"year"`
	Sort        string        `json:"sort"`
	Years       []int         `json:"years"`
	Count       int           `json:"count"`
	Projects    []ProjectCard `json:"projects"`
	Breadcrumbs []Breadcrumb  `json:"breadcrumbs"`
}

// ListOptions are the search, filter and sort choices of the project list
type ListOptions struct {
	Search string
	Year   string
	Sort   string
}

// normalize fills in the defaults: every year, newest first
func (o ListOptions) normalize() ListOptions {
	o.Search = strings.TrimSpace(o.Search)
	if o.Year == "" {
		o.Year = YearAll
	}
	switch o.Sort {
	case SortNewest, SortOldest, SortPopular, SortDownloads:
	default:
		o.Sort = SortNewest
	}
	return o
}

// MatchesSearch reports whether query occurs in the title, author names, tags, abstract or supervisor name
func MatchesSearch(p models.Project, query string) bool {
	if query == "" {
		return true
	}

	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.FullName())
	}

	if containsFold(p.Title, query) || containsFold(strings.Join(names, " "), query) {
		return true
	}
	for _, tag := range p.TagNames() {
		if containsFold(tag, query) {
			return true
		}
	}
	return containsFold(p.AbstractText(), query) || containsFold(p.SupervisorName(), query)
}

// FilterProjects applies search and year filter, then sorts. The input slice is not modified.
func FilterProjects(projects []models.Project, opts ListOptions) []models.Project {
	opts = opts.normalize()

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !MatchesSearch(p, opts.Search) {
			continue
		}
		if opts.Year != YearAll && strconv.Itoa(p.Year) != opts.Year {
			continue
		}
		out = append(out, p)
	}

	var less func(a, b models.Project) bool
	switch opts.Sort {
	case SortOldest:
		less = func(a, b models.Project) bool { return a.Year < b.Year }
	case SortPopular:
		less = func(a, b models.Project) bool { return a.Views > b.Views }
	case SortDownloads:
		less = func(a, b models.Project) bool { return a.Downloads > b.Downloads }
	default:
		less = func(a, b models.Project) bool { return a.Year > b.Year }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// AvailableYears returns the distinct project years, newest first
func AvailableYears(projects []models.Project) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, p := range projects {
		if !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// NewProjectCard summarizes a project; href is left empty when unknown
func NewProjectCard(p models.Project, href string) ProjectCard {
	return ProjectCard{
		ID:         p.ID,
		Title:      p.Title,
		Abstract:   p.AbstractText(),
		Authors:    p.AuthorNames(),
		Supervisor: p.SupervisorName(),
		Year:       p.Year,
		Tags:       p.TagNames(),
		Views:      p.Views,
		Downloads:  p.Downloads,
		Href:       href,
	}
}

// BuildProjectList renders the project list of the department in trail
func BuildProjectList(projects []models.Project, opts ListOptions, trail Trail) ProjectList {
	opts = opts.normalize()
	filtered := FilterProjects(projects, opts)

	cards := make([]ProjectCard, 0, len(filtered))
	for _, p := range filtered {
		cards = append(cards, NewProjectCard(p, ProjectPath(trail.SchoolID, trail.CollegeID, trail.DepartmentID, p.ID)))
	}

	return ProjectList{
		Search:      opts.Search,
		Year:        opts.Year,
		Sort:        opts.Sort,
		Years:       AvailableYears(projects),
		Count:       len(cards),
		Projects:    cards,
		Breadcrumbs: Breadcrumbs(trail),
	}
}
