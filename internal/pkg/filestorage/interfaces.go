package filestorage

import (
	"context"
	"io"
)

// Upload is a file handed to a storage host
type Upload struct {
	Filename string    // Original filename
	Mimetype string    // MIME type accepted by the wizard
	Size     int64     // Size in bytes
	Content  io.Reader // File bytes
}

// Uploader defines the interface for hosts that keep project documents
type Uploader interface {
	// Upload stores the file and returns the publicly resolvable URL of the stored copy
	Upload(ctx context.Context, upload Upload) (string, error)

	// Name identifies the host in logs
	Name() string
}
