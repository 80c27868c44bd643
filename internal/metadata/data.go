package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - Unexpected internal errors, unclassified library failures.

# CauseNetworkFailure
  - Connection refused, DNS failure, timeouts, redirect loops,
    a response body that breaks off mid-read.

# CauseHTTPStatus
  - The server answered, but with a status other than 200.

# CauseContentInvalid
  - A discovered reference that cannot be resolved to an address.
  - Markup the tokenizer cannot continue through.

# CauseStorageFailure
  - Disk full, permission errors, a file occupying a directory path.

# CauseInvariantViolation
  - Two different targets mirrored onto the same local path.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseHTTPStatus
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseHTTPStatus:
		return "http_status"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// DiagnosticLevel grades a markup parser notification.
// No level stops extraction or the crawl.
// The tokenizer recovers from malformed markup silently, so there is no
// level between a warning and the tokenizer giving up.
type DiagnosticLevel int

const (
	DiagnosticWarning DiagnosticLevel = iota
	DiagnosticFatal
)

func (d DiagnosticLevel) String() string {
	switch d {
	case DiagnosticWarning:
		return "warning"
	case DiagnosticFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactMirror ArtifactKind = "mirror"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL          AttributeKey = "url"
	AttrEffectiveURL AttributeKey = "effective_url"
	AttrReference    AttributeKey = "reference"
	AttrDepth        AttributeKey = "depth"
	AttrHTTPStatus   AttributeKey = "http_status"
	AttrWritePath    AttributeKey = "write_path"
	AttrContentHash  AttributeKey = "content_hash"
	AttrSizeByte     AttributeKey = "size_byte"
	AttrPreviousURL  AttributeKey = "previous_url"
)

/*
mirrorStats
  - Terminal, derived summary of a completed run
  - Computed by the scheduler after the queue drained (or the run was cancelled)
  - Recorded exactly once
*/
type mirrorStats struct {
	totalVisited   int
	totalMirrored  int
	totalAbandoned int
	totalErrors    int
	durationMs     int64
}
