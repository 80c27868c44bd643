package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	fullDir := filepath.Join(targetPath...)
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		// a regular file already occupies one of the path segments
		cause := ErrCausePathError
		if errors.Is(err, syscall.ENOTDIR) {
			cause = ErrCauseNotDirectory
		}
		return &FileError{
			Message: fmt.Sprintf("%v", err),
			Path:    fullDir,
			Cause:   cause,
		}
	}
	return nil
}

// EnsureParentDir creates every missing directory above filePath.
func EnsureParentDir(filePath string) failure.ClassifiedError {
	return EnsureDir(filepath.Dir(filePath))
}
