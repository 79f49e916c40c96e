package upload

import (
	"errors"
	"fmt"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNotOwner           = errors.New("you do not own this attachment")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles       = errors.New("too many files in one request")
	ErrNoFiles            = errors.New("request carries no files")
	ErrPathOutsideRoot    = errors.New("path escapes uploads root")
)

// UnsupportedMimeTypeError reports which MIME type was rejected so the
// failure surfaces to the client instead of being silently dropped.
type UnsupportedMimeTypeError struct {
	MimeType string
}

func (e *UnsupportedMimeTypeError) Error() string {
	return fmt.Sprintf("file type %q is not allowed", e.MimeType)
}
