package scheduler

import (
	"net/url"

	"github.com/rohmanhakim/site-mirror/internal/frontier"
	"github.com/rohmanhakim/site-mirror/internal/storage"
)

// MirrorExecution summarizes one run.
// Counts are derived from frontier state once the run ended.
type MirrorExecution struct {
	WriteResults   []storage.WriteResult
	TotalVisited   int
	TotalMirrored  int
	TotalAbandoned int
	TotalErrors    int
	// writes that replaced the mirror file of a different address
	TotalCollisions int
}

// walkOutcome is what one walk reports back to the coordinator.
type walkOutcome struct {
	token       frontier.CrawlToken
	writeResult *storage.WriteResult
	discovered  []url.URL
	errorCount  int
}
