package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/app/models"
)

func strPtr(s string) *string { return &s }

func sampleProjects() []models.Project {
	return []models.Project{
		{
			ID:         "p1",
			Title:      "Drone Delivery",
			Year:       2022,
			Views:      10,
			Downloads:  50,
			Authors:    []models.Author{{FirstName: "Ada", LastName: "Lovelace"}},
			Supervisor: &models.Supervisor{Name: "Dr. Smith"},
			Tags:       []models.Tag{{Name: "Robotics"}},
		},
		{
			ID:        "p2",
			Title:     "Crop Yield Prediction",
			Abstract:  strPtr("Using satellite imagery"),
			Year:      2024,
			Views:     30,
			Downloads: 5,
			Authors:   []models.Author{{FirstName: "Alan", LastName: "Turing"}},
			Tags:      []models.Tag{{Name: "Machine Learning"}},
		},
		{
			ID:        "p3",
			Title:     "Smart Grid",
			Year:      2022,
			Views:     30,
			Downloads: 20,
			Tags:      []models.Tag{{Name: "IoT"}},
		},
	}
}

func ids(projects []models.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestBuildCollegeList(t *testing.T) {
	colleges := []models.College{
		{ID: "c1", Name: "Engineering", Departments: []models.Department{
			{ID: "d1", Count: models.ProjectCount{Projects: 3}},
			{ID: "d2", Count: models.ProjectCount{Projects: 4}},
		}},
		{ID: "c2", Name: "Law"},
	}

	list := BuildCollegeList(colleges, "", Trail{SchoolID: "s1", SchoolName: "Bells"})
	require.Len(t, list.Colleges, 2)
	assert.Equal(t, 7, list.Colleges[0].ProjectCount)
	assert.Equal(t, 2, list.Colleges[0].DepartmentCount)
	assert.Equal(t, 0, list.Colleges[1].ProjectCount)
	assert.Equal(t, []Breadcrumb{{Label: "Bells", Href: "/school/s1/college"}}, list.Breadcrumbs)

	list = BuildCollegeList(colleges, " ENGIN ", Trail{})
	require.Len(t, list.Colleges, 1)
	assert.Equal(t, "c1", list.Colleges[0].ID)
	assert.Equal(t, "ENGIN", list.Search)

	assert.Equal(t, "Law", CollegeName(colleges, "c2"))
	assert.Empty(t, CollegeName(colleges, "missing"))
}

func TestBuildDepartmentList_TagsAreEchoedNotApplied(t *testing.T) {
	departments := []models.Department{
		{ID: "d1", Name: "Computer Science", Count: models.ProjectCount{Projects: 2}},
		{ID: "d2", Name: "Civil Engineering"},
	}

	list := BuildDepartmentList(departments, "", []string{"IoT", "Unknown", "IoT", "Machine Learning"}, Trail{})
	assert.Len(t, list.Departments, 2)
	assert.Equal(t, []string{"IoT", "Machine Learning"}, list.SelectedTags)
	require.Len(t, list.Tags, len(TagVocabulary))
	assert.Equal(t, "#MachineLearning", list.Tags[0].Label)
	assert.True(t, list.Tags[0].Selected)
	assert.False(t, list.Tags[1].Selected)

	list = BuildDepartmentList(departments, "computer", nil, Trail{})
	require.Len(t, list.Departments, 1)
	assert.Equal(t, 2, list.Departments[0].ProjectCount)
	assert.Empty(t, list.SelectedTags)
}

func TestMatchesSearch(t *testing.T) {
	projects := sampleProjects()
	assert.True(t, MatchesSearch(projects[0], "drone"))
	assert.True(t, MatchesSearch(projects[0], "ada love"))
	assert.True(t, MatchesSearch(projects[0], "ROBOT"))
	assert.True(t, MatchesSearch(projects[0], "smith"))
	assert.True(t, MatchesSearch(projects[1], "satellite"))
	assert.False(t, MatchesSearch(projects[2], "satellite"))
	assert.True(t, MatchesSearch(projects[2], ""))
}

func TestFilterProjects(t *testing.T) {
	projects := sampleProjects()

	assert.Equal(t, []string{"p2", "p1", "p3"}, ids(FilterProjects(projects, ListOptions{})))
	assert.Equal(t, []string{"p1", "p3", "p2"}, ids(FilterProjects(projects, ListOptions{Sort: SortOldest})))
	assert.Equal(t, []string{"p2", "p3", "p1"}, ids(FilterProjects(projects, ListOptions{Sort: SortPopular})))
	assert.Equal(t, []string{"p1", "p3", "p2"}, ids(FilterProjects(projects, ListOptions{Sort: SortDownloads})))
	assert.Equal(t, []string{"p1", "p3"}, ids(FilterProjects(projects, ListOptions{Year: "2022"})))
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids(FilterProjects(projects, ListOptions{Year: YearAll, Sort: "bogus"})))
	assert.Empty(t, FilterProjects(projects, ListOptions{Year: "1999"}))

	// input order is untouched
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(projects))
}

func TestBuildProjectList(t *testing.T) {
	trail := Trail{SchoolID: "s1", CollegeID: "c1", DepartmentID: "d1", SchoolName: "Bells", CollegeName: "Eng", DepartmentName: "CS"}
	list := BuildProjectList(sampleProjects(), ListOptions{Search: "smart"}, trail)

	assert.Equal(t, []int{2024, 2022}, list.Years)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, SortNewest, list.Sort)
	assert.Equal(t, YearAll, list.Year)
	assert.Equal(t, "Unknown", list.Projects[0].Authors)
	assert.Equal(t, "/school/s1/college/c1/department/d1/project/p3", list.Projects[0].Href)
	require.Len(t, list.Breadcrumbs, 4)
	assert.Equal(t, "Projects", list.Breadcrumbs[3].Label)
	assert.Equal(t, "/school/s1/college/c1/department/d1/projects", list.Breadcrumbs[3].Href)
}

func TestBuildProjectDetail(t *testing.T) {
	project := models.Project{
		ID:         "p1",
		Title:      "A very long project title that goes beyond thirty characters",
		Visibility: "PUBLIC",
		CreatedAt:  "2024-03-05T10:00:00.000Z",
		UpdatedAt:  "2024-04-01",
		Authors:    []models.Author{{FirstName: "Ada", LastName: "Lovelace"}, {FirstName: "Alan", LastName: "Turing"}},
		Files: []models.ProjectFile{
			{ID: "f1", Mimetype: "application/msword"},
			{ID: "f2", Mimetype: models.MimePDF},
		},
		Department: &models.Department{Name: "CS"},
	}
	related := []models.Project{{ID: "p9", Title: "Neighbour"}}
	trail := Trail{SchoolID: "s1", CollegeID: "c1", DepartmentID: "d1", SchoolName: "Bells"}

	detail := BuildProjectDetail(project, related, "", "https://fyp.example/", trail)
	assert.Equal(t, TabOverview, detail.Tab)
	assert.Equal(t, "Ada Lovelace, Alan Turing", detail.Authors)
	assert.Equal(t, "March 5, 2024", detail.CreatedAt)
	assert.Equal(t, "April 1, 2024", detail.UpdatedAt)
	assert.Equal(t, "public", detail.Visibility)
	require.NotNil(t, detail.MainFile)
	assert.Equal(t, "f2", detail.MainFile.ID)
	assert.Equal(t, "https://fyp.example/school/s1/college/c1/department/d1/project/p1", detail.ShareURL)
	assert.Equal(t, "/school/s1/college/c1/department/d1/project/p1/edit", detail.EditURL)
	assert.Nil(t, detail.Related)

	last := detail.Breadcrumbs[len(detail.Breadcrumbs)-1]
	assert.Equal(t, "A very long project title that...", last.Label)
	assert.Equal(t, "CS", detail.Breadcrumbs[2].Label)

	detail = BuildProjectDetail(project, related, TabRelated, "https://fyp.example", trail)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "p9", detail.Related[0].ID)

	assert.Equal(t, TabOverview, NormalizeTab("nope"))
	assert.Equal(t, TabFullText, NormalizeTab(TabFullText))
}
