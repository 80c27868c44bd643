package extractor

import (
	"fmt"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseMalformedReference ExtractionErrorCause = "malformed reference"
)

type ExtractionError struct {
	Message   string
	Cause     ExtractionErrorCause
	Reference string
	Base      string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s %q on %s: %s", e.Cause, e.Reference, e.Base, e.Message)
}

// Severity is always recoverable: only the one reference is dropped.
func (e *ExtractionError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseMalformedReference:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
