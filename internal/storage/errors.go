package storage

import (
	"fmt"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCauseDiskFull              StorageErrorCause = "disk is full"
	ErrCauseWriteFailure          StorageErrorCause = "write failed"
	ErrCausePathConflict          StorageErrorCause = "path occupied by a file"
	ErrCauseSourceRead            StorageErrorCause = "failed to read source body"
	ErrCauseHashComputationFailed StorageErrorCause = "hash computation failed"
)

type StorageError struct {
	Message string
	Cause   StorageErrorCause
	Path    string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %s", e.Cause, e.Message)
}

// Severity is always recoverable: a failed write only abandons its own Target.
func (e *StorageError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapStorageErrorToMetadataCause maps storage-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDiskFull, ErrCauseWriteFailure, ErrCausePathConflict:
		return metadata.CauseStorageFailure
	case ErrCauseSourceRead:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
