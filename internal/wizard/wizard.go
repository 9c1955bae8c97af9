package wizard

import (
	"bytes"
	"io"

	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/filestorage"
	"github.com/yigit/fypdash/internal/pkg/validation"
)

// Step names a wizard state
type Step string

const (
	StepDetails  Step = "details"
	StepFile     Step = "file"
	StepComplete Step = "complete"
)

// State is one of DetailsStep, FileStep or CompleteStep
type State interface {
	Step() Step
}

// DetailsStep collects the project fields. ProjectID is set when the user came back from the file step.
type DetailsStep struct {
	Form      Form
	Error     string
	ProjectID string
}

// Step implements State
func (DetailsStep) Step() Step { return StepDetails }

// SelectedFile is a local document waiting to be uploaded
type SelectedFile struct {
	Filename string
	Mimetype string
	Size     int64
	Content  []byte
}

// Reader returns the file content for upload
func (f SelectedFile) Reader() io.Reader {
	return bytes.NewReader(f.Content)
}

// FileStep attaches one document to the created project
type FileStep struct {
	ProjectID    string
	Form         Form
	File         *SelectedFile
	UploadedPath string
	Uploading    bool
	Error        string
}

// Step implements State
func (FileStep) Step() Step { return StepFile }

// CompleteStep is reached once the file record exists
type CompleteStep struct {
	ProjectID string
	File      models.FilePayload
}

// Step implements State
func (CompleteStep) Step() Step { return StepComplete }

// Start returns the initial state for user in school
func Start(user models.User, schoolID string) DetailsStep {
	return DetailsStep{Form: NewForm(user, schoolID)}
}

// Reset discards everything and starts over
func Reset(user models.User, schoolID string) DetailsStep {
	return Start(user, schoolID)
}

// Prepare validates the form and returns the payload to submit.
// On failure the returned state carries the message and the payload is empty.
func (s DetailsStep) Prepare() (DetailsStep, models.ProjectPayload, error) {
	if err := s.Form.Validate(); err != nil {
		s.Error = err.Error()
		return s, models.ProjectPayload{}, err
	}
	s.Error = ""
	return s, s.Form.Payload(), nil
}

// Fail keeps the user on the details step with message
func (s DetailsStep) Fail(message string) DetailsStep {
	s.Error = message
	return s
}

// Advance moves to the file step once the project exists
func (s DetailsStep) Advance(projectID string) FileStep {
	return FileStep{
		ProjectID: projectID,
		Form:      s.Form.clone(),
	}
}

// SelectFile replaces the selected file. An invalid file only sets Error and leaves the rest untouched.
// A new file invalidates any earlier upload.
func (s FileStep) SelectFile(file SelectedFile) (FileStep, error) {
	head := file.Content
	if len(head) > 512 {
		head = head[:512]
	}
	mime, err := validation.NewFileValidation(file.Size, file.Mimetype).WithHead(head).Validate()
	if err != nil {
		s.Error = err.Error()
		return s, err
	}

	file.Mimetype = mime
	s.File = &file
	s.UploadedPath = ""
	s.Uploading = false
	s.Error = ""
	return s, nil
}

// RemoveFile clears the file and everything derived from it
func (s FileStep) RemoveFile() FileStep {
	s.File = nil
	s.UploadedPath = ""
	s.Uploading = false
	s.Error = ""
	return s
}

// CanUpload reports whether a selected file is waiting to be uploaded
func (s FileStep) CanUpload() bool {
	return s.File != nil && !s.Uploading && s.UploadedPath == ""
}

// BeginUpload marks the upload as in flight and returns what to send
func (s FileStep) BeginUpload() (FileStep, filestorage.Upload, error) {
	if s.File == nil {
		s.Error = apperrors.ErrNoFileSelected.Error()
		return s, filestorage.Upload{}, apperrors.ErrNoFileSelected
	}
	if s.Uploading {
		return s, filestorage.Upload{}, apperrors.NewCustomError(apperrors.ErrWizardState, "The file is already being uploaded")
	}

	s.Uploading = true
	s.Error = ""
	return s, filestorage.Upload{
		Filename: s.File.Filename,
		Mimetype: s.File.Mimetype,
		Size:     s.File.Size,
		Content:  s.File.Reader(),
	}, nil
}

// Uploaded stores the URL returned by the media host
func (s FileStep) Uploaded(path string) FileStep {
	s.Uploading = false
	s.UploadedPath = path
	s.Error = ""
	return s
}

// UploadFailed keeps the file selected so the user can retry
func (s FileStep) UploadFailed(message string) FileStep {
	s.Uploading = false
	s.Error = message
	return s
}

// CanSubmit reports whether the file record may be created
func (s FileStep) CanSubmit() bool {
	return s.ProjectID != "" && s.File != nil && s.UploadedPath != "" && !s.Uploading
}

// FileRecord returns the file metadata to create, refusing until the project exists and the upload returned a path
func (s FileStep) FileRecord() (FileStep, models.FilePayload, error) {
	var err error
	switch {
	case s.ProjectID == "":
		err = apperrors.ErrMissingProject
	case s.File == nil:
		err = apperrors.ErrNoFileSelected
	case s.UploadedPath == "" || s.Uploading:
		err = apperrors.ErrFileNotUploaded
	}
	if err != nil {
		s.Error = err.Error()
		return s, models.FilePayload{}, err
	}

	s.Error = ""
	return s, models.FilePayload{
		Filename:  s.File.Filename,
		Path:      s.UploadedPath,
		Mimetype:  s.File.Mimetype,
		Size:      s.File.Size,
		ProjectID: s.ProjectID,
	}, nil
}

// Fail keeps the user on the file step with message
func (s FileStep) Fail(message string) FileStep {
	s.Error = message
	return s
}

// Complete finishes the wizard
func (s FileStep) Complete(record models.FilePayload) CompleteStep {
	return CompleteStep{ProjectID: s.ProjectID, File: record}
}

// Back returns to the details step keeping the form and the created project
func (s FileStep) Back() DetailsStep {
	return DetailsStep{Form: s.Form.clone(), ProjectID: s.ProjectID}
}

// NeedsCloseConfirmation reports whether closing would lose entered data
func NeedsCloseConfirmation(s State) bool {
	switch st := s.(type) {
	case DetailsStep:
		return !st.Form.Empty()
	case FileStep:
		return !st.Form.Empty() || st.File != nil
	default:
		return false
	}
}

// Close returns the state left after closing. Unconfirmed closes that would lose data are refused;
// a completed wizard is left as is, anything else is reset.
func Close(s State, confirmed bool, user models.User, schoolID string) (State, error) {
	if NeedsCloseConfirmation(s) && !confirmed {
		return s, apperrors.NewCustomError(apperrors.ErrConfirmationNeeded, MsgCloseConfirmation)
	}
	if _, done := s.(CompleteStep); done {
		return s, nil
	}
	return Reset(user, schoolID), nil
}

// MsgCloseConfirmation asks the user to confirm closing
const MsgCloseConfirmation = "Are you sure you want to close? All your progress will be lost."
