package validation

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
)

// MaxFileSize is the largest project document accepted (20 MB)
const MaxFileSize int64 = 20 * 1024 * 1024

// AllowedMimeTypes lists the document types a project file may have
var AllowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/doc":    true,
	"application/docx":   true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
}

// NewStringValidation creates a required string validation on the trimmed value
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	return true
}

// FileValidation checks a selected document before anything is sent over the network
type FileValidation struct {
	Size     int64
	Mimetype string
	Head     []byte // leading bytes used when the declared type is missing or generic
}

// NewFileValidation creates a file validation
func NewFileValidation(size int64, declared string) *FileValidation {
	return &FileValidation{
		Size:     size,
		Mimetype: normalizeMimetype(declared),
	}
}

// WithHead attaches sniffable content
func (v *FileValidation) WithHead(head []byte) *FileValidation {
	v.Head = head
	return v
}

// Validate returns the effective mimetype, or the user-facing reason for rejection.
// Size is checked before type.
func (v *FileValidation) Validate() (string, error) {
	if v.Size > MaxFileSize {
		return "", apperrors.ErrFileTooLarge
	}

	mime := v.Mimetype
	if (mime == "" || mime == "application/octet-stream") && len(v.Head) > 0 {
		mime = normalizeMimetype(mimetype.Detect(v.Head).String())
	}
	if !AllowedMimeTypes[mime] {
		return "", apperrors.ErrFileType
	}
	return mime, nil
}

func normalizeMimetype(value string) string {
	if i := strings.Index(value, ";"); i >= 0 {
		value = value[:i]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
