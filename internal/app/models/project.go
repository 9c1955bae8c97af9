package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MimePDF is the mimetype of the file shown in the full-text tab
const MimePDF = "application/pdf"

// Author is a user credited on a project
type Author struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// FullName returns first and last name separated by a space
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Tag is a project label. The backend sends tags either as objects or as bare strings.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both {"name": "..."} and "..."
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Tag{Name: name}
		return nil
	}

	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	return nil
}

// ProjectFile is a document attached to a project
type ProjectFile struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	Mimetype   string `json:"mimetype"`
	Size       int64  `json:"size"`
	ProjectID  string `json:"projectId"`
	UploadedAt string `json:"uploadedAt,omitempty"`
}

// Project is a submitted final-year project
type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Abstract     *string       `json:"abstract"`
	Visibility   string        `json:"visibility,omitempty"`
	SupervisorID string        `json:"supervisorId,omitempty"`
	DepartmentID string        `json:"departmentId"`
	SchoolID     string        `json:"schoolId"`
	Year         int           `json:"year"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
	Keywords     []string      `json:"keywords,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	Authors      []Author      `json:"authors"`
	Supervisor   *Supervisor   `json:"supervisor"`
	Department   *Department   `json:"department,omitempty"`
	School       *School       `json:"school,omitempty"`
	Tags         []Tag         `json:"tags"`
	Files        []ProjectFile `json:"files"`
	Views        int           `json:"views,omitempty"`
	Downloads    int           `json:"downloads,omitempty"`
	Likes        int           `json:"likes,omitempty"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
}

// AbstractText returns the abstract or an empty string
func (p Project) AbstractText() string {
	if p.Abstract == nil {
		return ""
	}
	return *p.Abstract
}

// SupervisorName returns the supervisor's name or an empty string
func (p Project) SupervisorName() string {
	if p.Supervisor == nil {
		return ""
	}
	return p.Supervisor.Name
}

// AuthorNames joins author full names, or returns "Unknown" when there are none
func (p Project) AuthorNames() string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.FullName())
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

// TagNames returns the names of the project's tags
func (p Project) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// MainFile returns the first PDF attached to the project
func (p Project) MainFile() *ProjectFile {
	for i := range p.Files {
		if p.Files[i].Mimetype == MimePDF {
			return &p.Files[i]
		}
	}
	return nil
}

// DisplayDate formats a backend timestamp as "January 2, 2006". Unparseable input is returned unchanged.
func DisplayDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return value
}

// NewSupervisor is sent when the supervisor does not exist yet
type NewSupervisor struct {
	Name string `json:"name"`
}

// ProjectPayload is the body of the create and update project calls.
// At most one of SupervisorID and NewSupervisor is set.
type ProjectPayload struct {
	Title         string         `json:"title"`
	Abstract      string         `json:"abstract"`
	AuthorIDs     []string       `json:"authorIds"`
	DepartmentID  string         `json:"departmentId"`
	SchoolID      string         `json:"schoolId"`
	Year          string         `json:"year"`
	SupervisorID  string         `json:"supervisorId,omitempty"`
	NewSupervisor *NewSupervisor `json:"newSupervisor,omitempty"`
}

// FilePayload is the body of the create file call
type FilePayload struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Mimetype  string `json:"mimetype"`
	Size      int64  `json:"size"`
	ProjectID string `json:"projectId"`
}
