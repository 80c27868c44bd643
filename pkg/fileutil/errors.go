package fileutil

import (
	"fmt"

	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

type FileErrorCause string

const (
	ErrCausePathError    FileErrorCause = "path error"
	ErrCauseNotDirectory FileErrorCause = "not a directory"
)

type FileError struct {
	Message string
	Path    string
	Cause   FileErrorCause
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file error: %s: %s", e.Cause, e.Path)
}

// Severity is always recoverable: a filesystem fault only affects the
// resource being written.
func (e *FileError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
