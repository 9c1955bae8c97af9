package dto

// SelectCollegeRequest picks the college in the project form
type SelectCollegeRequest struct {
	CollegeID string `json:"collegeId" binding:"required"`
}

// SelectDepartmentRequest picks the department in the project form
type SelectDepartmentRequest struct {
	DepartmentID string `json:"departmentId" binding:"required"`
}

// SelectSupervisorRequest picks an existing supervisor
type SelectSupervisorRequest struct {
	SupervisorID string `json:"supervisorId" binding:"required"`
}

// SupervisorModeRequest switches between choosing an existing supervisor and naming a new one
type SupervisorModeRequest struct {
	CreateNew bool `json:"createNew"`
}

// ProjectDetailsRequest carries the free-text fields of the project form
type ProjectDetailsRequest struct {
	Title             string `json:"title"`
	Abstract          string `json:"abstract"`
	Year              string `json:"year"`
	NewSupervisorName string `json:"newSupervisorName,omitempty"`
}

// CloseWizardRequest closes the wizard; Confirm acknowledges that progress will be lost
type CloseWizardRequest struct {
	Confirm bool `json:"confirm"`
}

// EditProjectRequest is the full edit panel form
type EditProjectRequest struct {
	Title             string `json:"title"`
	Abstract          string `json:"abstract"`
	Year              string `json:"year"`
	CollegeID         string `json:"collegeId"`
	DepartmentID      string `json:"departmentId"`
	SupervisorID      string `json:"supervisorId"`
	NewSupervisorName string `json:"newSupervisorName"`
	CreateNew         bool   `json:"createNew"`
}

// ListQuery holds the search, filter and sort options of the list pages
type ListQuery struct {
	Search string   `form:"q"`
	Year   string   `form:"year"`
	Sort   string   `form:"sort"`
	Tags   []string `form:"tag"`
	Tab    string   `form:"tab"`
}
