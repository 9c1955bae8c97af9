package wizard

import "github.com/yigit/fypdash/internal/app/models"

// Options are the choices offered by the cascading selects
type Options struct {
	Colleges    []models.College    `json:"colleges"`
	Departments []models.Department `json:"departments"`
	Supervisors []models.Supervisor `json:"supervisors"`
}

// FileView describes the selected file without its content
type FileView struct {
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// View is the JSON rendering of a wizard state
type View struct {
	Step         Step                `json:"step"`
	Form         *Form               `json:"form,omitempty"`
	ProjectID    string              `json:"projectId,omitempty"`
	File         *FileView           `json:"file,omitempty"`
	UploadedPath string              `json:"uploadedPath,omitempty"`
	Uploading    bool                `json:"uploading"`
	CanUpload    bool                `json:"canUpload"`
	CanSubmit    bool                `json:"canSubmit"`
	Busy         bool                `json:"busy"`
	ConfirmClose bool                `json:"confirmClose"`
	Error        string              `json:"error,omitempty"`
	Record       *models.FilePayload `json:"record,omitempty"`
	Options      Options             `json:"options"`
}

// NewView renders state together with the current select options
func NewView(state State, options Options) View {
	view := View{
		Step:         state.Step(),
		ConfirmClose: NeedsCloseConfirmation(state),
		Options:      options,
	}

	switch st := state.(type) {
	case DetailsStep:
		form := st.Form.clone()
		view.Form = &form
		view.ProjectID = st.ProjectID
		view.Error = st.Error
	case FileStep:
		form := st.Form.clone()
		view.Form = &form
		view.ProjectID = st.ProjectID
		view.UploadedPath = st.UploadedPath
		view.Uploading = st.Uploading
		view.CanUpload = st.CanUpload()
		view.CanSubmit = st.CanSubmit()
		view.Error = st.Error
		if st.File != nil {
			view.File = &FileView{
				Filename: st.File.Filename,
				Mimetype: st.File.Mimetype,
				Size:     st.File.Size,
			}
		}
	case CompleteStep:
		record := st.File
		view.ProjectID = st.ProjectID
		view.Record = &record
	}
	return view
}
