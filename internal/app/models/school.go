package models

// School is the top of the organizational hierarchy
type School struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectCount is the backend's relation counter for a department
type ProjectCount struct {
	Projects int `json:"projects"`
}

// College groups departments inside a school
type College struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Image       string       `json:"image,omitempty"`
	SchoolID    string       `json:"schoolId"`
	Departments []Department `json:"departments,omitempty"`
}

// ProjectTotal sums the project counters of every department in the college
func (c College) ProjectTotal() int {
	total := 0
	for _, d := range c.Departments {
		total += d.Count.Projects
	}
	return total
}

// Department owns projects and supervisors
type Department struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CollegeID string       `json:"collegeId,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
	Count     ProjectCount `json:"_count"`
}

// Supervisor is an academic advisor attached to a department
type Supervisor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId,omitempty"`
}
