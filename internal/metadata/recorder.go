package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Per-target visit transitions
- Fetch outcome: status code, content type, duration
- Mirrored artifacts: local path, size, content hash
- Errors and parser diagnostics

Metadata is write-only.
No component may read metadata to influence crawl decisions.
*/

/*
Recorder writes structured crawl events to a zerolog.Logger.
It must not:
- perform I/O decisions
- affect control flow

Events are logged synchronously in the order each worker emits them.
No global ordering across workers is guaranteed.
*/
type Recorder struct {
	workerId string
	logger   zerolog.Logger
}

func NewRecorder(workerId string, logger zerolog.Logger) Recorder {
	return Recorder{
		workerId: workerId,
		logger:   logger.With().Str("worker", workerId).Logger(),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	event := r.logger.Error().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Stringer("cause", cause)
	withAttrs(event, attrs).Msg(errorString)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	effectiveUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
	r.logger.Info().
		Str(string(AttrURL), fetchUrl).
		Str(string(AttrEffectiveURL), effectiveUrl).
		Int("status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int(string(AttrDepth), crawlDepth).
		Msg("fetched")
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	event := r.logger.Info().
		Str("kind", string(kind)).
		Str("path", path)
	withAttrs(event, attrs).Msg("mirrored")
}

func (r *Recorder) RecordDiagnostic(level DiagnosticLevel, sourceUrl string, details string) {
	var event *zerolog.Event
	switch level {
	case DiagnosticWarning:
		event = r.logger.Warn()
	default:
		event = r.logger.Error()
	}
	event.
		Stringer("diagnostic", level).
		Str(string(AttrURL), sourceUrl).
		Msg(details)
}

func (r *Recorder) RecordVisit(targetUrl string, state string, crawlDepth int) {
	r.logger.Debug().
		Str(string(AttrURL), targetUrl).
		Str("state", state).
		Int(string(AttrDepth), crawlDepth).
		Msg("visit")
}

/*
RecordFinalMirrorStats records a terminal, derived summary of a completed run.
Contract:
  - MUST be called exactly once per run, after the work queue drained
    or the run was cancelled.
  - The counts MUST be derived from scheduler state, not accumulated
    through the recorder.
*/
func (r *Recorder) RecordFinalMirrorStats(
	totalVisited int,
	totalMirrored int,
	totalAbandoned int,
	totalErrors int,
	duration time.Duration,
) {
	stats := mirrorStats{
		totalVisited:   totalVisited,
		totalMirrored:  totalMirrored,
		totalAbandoned: totalAbandoned,
		totalErrors:    totalErrors,
		durationMs:     duration.Milliseconds(),
	}
	r.append(stats)
}

func (r *Recorder) append(stats mirrorStats) {
	r.logger.Info().
		Int("visited", stats.totalVisited).
		Int("mirrored", stats.totalMirrored).
		Int("abandoned", stats.totalAbandoned).
		Int("errors", stats.totalErrors).
		Int64("duration_ms", stats.durationMs).
		Msg("mirror finished")
}

func withAttrs(event *zerolog.Event, attrs []Attribute) *zerolog.Event {
	for _, attr := range attrs {
		event = event.Str(string(attr.Key), attr.Value)
	}
	return event
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordFetch(
		fetchUrl string,
		effectiveUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		crawlDepth int,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
	RecordDiagnostic(level DiagnosticLevel, sourceUrl string, details string)
	RecordVisit(targetUrl string, state string, crawlDepth int)
}

type CrawlFinalizer interface {
	RecordFinalMirrorStats(
		totalVisited int,
		totalMirrored int,
		totalAbandoned int,
		totalErrors int,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.Sink but does nothing
// Scheduler (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	effectiveUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordDiagnostic(level DiagnosticLevel, sourceUrl string, details string) {}

func (n *NoopSink) RecordVisit(targetUrl string, state string, crawlDepth int) {}

func (n *NoopSink) RecordFinalMirrorStats(
	totalVisited int,
	totalMirrored int,
	totalAbandoned int,
	totalErrors int,
	duration time.Duration,
) {
}
