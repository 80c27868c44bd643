package scheduler_test

import (
	"sync"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
)

type recordedError struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

func (e recordedError) attr(key metadata.AttributeKey) string {
	for _, attr := range e.attrs {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

type finalStats struct {
	visited   int
	mirrored  int
	abandoned int
	errors    int
}

// recordingSink captures metadata from concurrent walks.
type recordingSink struct {
	mu        sync.Mutex
	errors    []recordedError
	artifacts []string
	visits    []string
	finals    []finalStats
}

func (s *recordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, recordedError{
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

func (s *recordingSink) RecordFetch(
	fetchUrl string,
	effectiveUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
}

func (s *recordingSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, path)
}

func (s *recordingSink) RecordDiagnostic(level metadata.DiagnosticLevel, sourceUrl string, details string) {
}

func (s *recordingSink) RecordVisit(targetUrl string, state string, crawlDepth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append(s.visits, targetUrl+" "+state)
}

func (s *recordingSink) RecordFinalMirrorStats(
	totalVisited int,
	totalMirrored int,
	totalAbandoned int,
	totalErrors int,
	duration time.Duration,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finals = append(s.finals, finalStats{
		visited:   totalVisited,
		mirrored:  totalMirrored,
		abandoned: totalAbandoned,
		errors:    totalErrors,
	})
}

func (s *recordingSink) recordedErrors() []recordedError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedError(nil), s.errors...)
}

func (s *recordingSink) errorsByCause(cause metadata.ErrorCause) []recordedError {
	var matched []recordedError
	for _, e := range s.recordedErrors() {
		if e.cause == cause {
			matched = append(matched, e)
		}
	}
	return matched
}
