package extractor_test

import (
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
)

type diagnostic struct {
	level     metadata.DiagnosticLevel
	sourceUrl string
	details   string
}

type recordedError struct {
	cause metadata.ErrorCause
	attrs []metadata.Attribute
}

// recordingSink keeps diagnostics and errors; everything else is dropped.
type recordingSink struct {
	metadata.NoopSink
	diagnostics []diagnostic
	errors      []recordedError
}

func (r *recordingSink) RecordDiagnostic(level metadata.DiagnosticLevel, sourceUrl string, details string) {
	r.diagnostics = append(r.diagnostics, diagnostic{level: level, sourceUrl: sourceUrl, details: details})
}

func (r *recordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	r.errors = append(r.errors, recordedError{cause: cause, attrs: attrs})
}

func (r *recordingSink) levels() []metadata.DiagnosticLevel {
	var levels []metadata.DiagnosticLevel
	for _, d := range r.diagnostics {
		levels = append(levels, d.level)
	}
	return levels
}
