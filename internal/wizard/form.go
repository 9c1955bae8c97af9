// Package wizard implements the two-step project submission flow and the project edit panel.
//
// Step states are plain values and every transition is a method returning the next value;
// Service owns the per-session copy and performs the backend and upload calls between transitions.
package wizard

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/validation"
)

// MsgRequiredFields is shown when the project form is incomplete
const MsgRequiredFields = "Please fill in all required fields"

// Supervisor is either an existing supervisor (ID) or one to be created (Name)
type Supervisor struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Resolved reports whether the supervisor refers to someone
func (s Supervisor) Resolved() bool {
	return s.ID != "" || strings.TrimSpace(s.Name) != ""
}

// Form holds the project fields shared by the creation wizard and the edit panel
type Form struct {
	Title        string     `json:"title"`
	Abstract     string     `json:"abstract"`
	AuthorIDs    []string   `json:"authorIds" validate:"min=1,dive,required"`
	CollegeID    string     `json:"collegeId"`
	DepartmentID string     `json:"departmentId" validate:"required"`
	Supervisor   Supervisor `json:"supervisor"`
	CreateNew    bool       `json:"createNew"`
	SchoolID     string     `json:"schoolId" validate:"required"`
	Year         string     `json:"year" validate:"required"`
}

// NewForm returns an empty form authored by user for the school in the route
func NewForm(user models.User, schoolID string) Form {
	return Form{
		AuthorIDs: []string{user.ID},
		SchoolID:  schoolID,
	}
}

func (f Form) clone() Form {
	f.AuthorIDs = append([]string(nil), f.AuthorIDs...)
	return f
}

// Empty reports whether nothing worth keeping has been typed
func (f Form) Empty() bool {
	return strings.TrimSpace(f.Title) == ""
}

// WithCollege selects a college and clears the department and supervisor below it
func (f Form) WithCollege(collegeID string) Form {
	f = f.clone()
	f.CollegeID = collegeID
	f.DepartmentID = ""
	f.Supervisor = Supervisor{}
	return f
}

// WithDepartment selects a department and clears the supervisor below it
func (f Form) WithDepartment(departmentID string) Form {
	f = f.clone()
	f.DepartmentID = departmentID
	f.Supervisor = Supervisor{}
	return f
}

// WithSupervisor selects an existing supervisor
func (f Form) WithSupervisor(supervisorID string) Form {
	f = f.clone()
	f.Supervisor = Supervisor{ID: supervisorID}
	return f
}

// WithNewSupervisorName names a supervisor to be created with the project
func (f Form) WithNewSupervisorName(name string) Form {
	f = f.clone()
	f.Supervisor = Supervisor{Name: name}
	return f
}

// WithCreateNew switches supervisor mode; either way the supervisor is cleared
func (f Form) WithCreateNew(createNew bool) Form {
	f = f.clone()
	f.CreateNew = createNew
	f.Supervisor = Supervisor{}
	return f
}

// WithDetails overwrites the free-text fields
func (f Form) WithDetails(title, abstract, year string) Form {
	f = f.clone()
	f.Title = title
	f.Abstract = abstract
	f.Year = year
	return f
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every required field. The abstract is optional.
func (f Form) Validate() error {
	fields := map[string]string{}

	if !validation.NewStringValidation(f.Title).Validate() {
		fields["title"] = "required"
	}
	if !f.Supervisor.Resolved() {
		fields["supervisor"] = "required"
	}

	if err := formValidator.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}

	if len(fields) > 0 {
		return apperrors.NewValidationError(MsgRequiredFields, fields)
	}
	return nil
}

// Payload builds the create/update body. An existing supervisor id wins over a new name;
// with neither, both keys are omitted.
func (f Form) Payload() models.ProjectPayload {
	payload := models.ProjectPayload{
		Title:        f.Title,
		Abstract:     f.Abstract,
		AuthorIDs:    append([]string(nil), f.AuthorIDs...),
		DepartmentID: f.DepartmentID,
		SchoolID:     f.SchoolID,
		Year:         f.Year,
	}

	switch {
	case f.Supervisor.ID != "":
		payload.SupervisorID = f.Supervisor.ID
	case strings.TrimSpace(f.Supervisor.Name) != "":
		payload.NewSupervisor = &models.NewSupervisor{Name: strings.TrimSpace(f.Supervisor.Name)}
	}
	return payload
}
