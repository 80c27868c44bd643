package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseInvalidRequest   FetchErrorCause = "invalid request"
	ErrCauseNetworkFailure   FetchErrorCause = "network failure"
	ErrCauseUnexpectedStatus FetchErrorCause = "unexpected status"
	ErrCauseReadResponseBody FetchErrorCause = "failed to read response body"
)

type FetchError struct {
	Message    string
	Cause      FetchErrorCause
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.Cause == ErrCauseUnexpectedStatus {
		return fmt.Sprintf("fetcher error: %s %d: %s", e.Cause, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

// Severity is always recoverable: a failed fetch only abandons its own Target.
func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseReadResponseBody:
		return metadata.CauseNetworkFailure
	case ErrCauseUnexpectedStatus:
		return metadata.CauseHTTPStatus
	case ErrCauseInvalidRequest:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}

// MetadataCause exposes the observational mapping to other packages
// that surface fetcher errors after Fetch returned.
func MetadataCause(err *FetchError) metadata.ErrorCause {
	return mapFetchErrorToMetadataCause(err)
}
