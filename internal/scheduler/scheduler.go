package scheduler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/config"
	"github.com/rohmanhakim/site-mirror/internal/extractor"
	"github.com/rohmanhakim/site-mirror/internal/fetcher"
	"github.com/rohmanhakim/site-mirror/internal/frontier"
	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/internal/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

/*
 Scheduler is the sole control-plane authority of the mirror run.

 Admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the frontier.
 - The host scope check MUST be completed before submitting a URL
   to the frontier.
 - The frontier only accepts already-admitted URLs and drops any URL
   it has seen before, in any state.

 Failure isolation:
 - Every failure (transport, status, read, write, malformed reference)
   is local to the Target being walked. It is recorded, counted, and the
   run moves on. Nothing is retried.

 Metadata emission is observational only and MUST NOT influence
 scheduling or termination.

 Scheduler Responsibilities:
 - Seed the frontier with the root URL
 - Run at most `concurrency` walks at a time
 - Feed discovered references back through admission
 - Stop dispatching when the context is cancelled
 - Aggregate run statistics
*/

type Scheduler struct {
	metadataSink   metadata.MetadataSink
	crawlFinalizer metadata.CrawlFinalizer
	frontier       *frontier.Frontier
	fetcher        fetcher.Fetcher
	linkExtractor  extractor.LinkExtractor
	storageSink    storage.Sink
	rootURL        url.URL
	scopeHost      string
	userAgent      string
	concurrency    int
}

// NewScheduler wires the production pipeline: a zerolog-backed recorder,
// an HTTP fetcher bounded by the configured timeout, and a mirror sink
// rooted at the configured directory.
func NewScheduler(cfg config.Config, logger zerolog.Logger) *Scheduler {
	recorder := metadata.NewRecorder("mirror", logger)
	httpFetcher := fetcher.NewHttpFetcher(&recorder, &http.Client{
		Timeout: cfg.Timeout(),
	})
	mirrorSink := storage.NewMirrorSink(
		&recorder,
		cfg.MirrorDir(),
		cfg.IndexFileName(),
		cfg.HashAlgo(),
	)
	return NewSchedulerWithDeps(cfg, &recorder, &recorder, &httpFetcher, mirrorSink)
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for testing.
// This constructor allows tests to provide mock implementations of the fetcher,
// the storage sink and the metadata interfaces.
func NewSchedulerWithDeps(
	cfg config.Config,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	pageFetcher fetcher.Fetcher,
	storageSink storage.Sink,
) *Scheduler {
	return &Scheduler{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		frontier:       frontier.NewFrontier(),
		fetcher:        pageFetcher,
		linkExtractor:  extractor.NewLinkExtractor(metadataSink),
		storageSink:    storageSink,
		rootURL:        cfg.RootURL(),
		scopeHost:      cfg.ScopeHost(),
		userAgent:      cfg.UserAgent(),
		concurrency:    cfg.Concurrency(),
	}
}

// SubmitUrlForAdmission is the single admission choke point.
//
// A URL whose host differs from the scope host, or that the frontier has
// already seen, is dropped without side effects. Otherwise it is marked
// Pending and queued. Reports whether the URL was admitted.
//
// No other code path may call Frontier.Submit.
func (s *Scheduler) SubmitUrlForAdmission(
	target url.URL,
	sourceContext frontier.SourceContext,
	depth int,
) bool {
	if target.Hostname() != s.scopeHost {
		return false
	}

	candidate := frontier.NewCrawlAdmissionCandidate(
		target,
		sourceContext,
		frontier.NewDiscoveryMetadata(depth),
	)
	if !s.frontier.Submit(candidate) {
		return false
	}
	s.metadataSink.RecordVisit(target.String(), frontier.Pending.String(), depth)
	return true
}

// ExecuteMirroring mirrors everything reachable from the root URL within
// the scope host.
//
// A coordinator loop dequeues tokens and runs up to `concurrency` walks on
// an errgroup. Each walk reports its outcome on a channel; the coordinator
// admits the references it discovered and dispatches more work. The run
// ends when the queue is empty and no walk is in flight.
//
// When ctx is cancelled no new walk is started, walks in flight finish or
// fail on their own, and ctx.Err() is returned with the partial execution.
func (s *Scheduler) ExecuteMirroring(ctx context.Context) (MirrorExecution, error) {
	startTime := time.Now()
	execution := MirrorExecution{}

	defer func() {
		s.crawlFinalizer.RecordFinalMirrorStats(
			execution.TotalVisited,
			execution.TotalMirrored,
			execution.TotalAbandoned,
			execution.TotalErrors,
			time.Since(startTime),
		)
	}()

	s.SubmitUrlForAdmission(s.rootURL, frontier.SourceSeed, 0)

	var workers errgroup.Group
	workers.SetLimit(s.concurrency)
	outcomes := make(chan walkOutcome)
	inflight := 0

	for {
		for inflight < s.concurrency && ctx.Err() == nil {
			token, ok := s.frontier.Dequeue()
			if !ok {
				break
			}
			inflight++
			workers.Go(func() error {
				outcomes <- s.walk(ctx, token)
				return nil
			})
		}

		if inflight == 0 {
			break
		}

		outcome := <-outcomes
		inflight--

		execution.TotalErrors += outcome.errorCount
		if outcome.writeResult != nil {
			execution.WriteResults = append(execution.WriteResults, *outcome.writeResult)
			if outcome.writeResult.Collided() {
				execution.TotalCollisions++
			}
		}
		for _, discovered := range outcome.discovered {
			s.SubmitUrlForAdmission(discovered, frontier.SourceCrawl, outcome.token.Depth()+1)
		}
	}

	// every walk already reported, so this returns at once
	_ = workers.Wait()

	execution.TotalVisited = s.frontier.VisitedCount()
	execution.TotalMirrored = s.frontier.CountByState(frontier.Done)
	execution.TotalAbandoned = s.frontier.CountByState(frontier.Pending)

	if err := ctx.Err(); err != nil {
		return execution, err
	}
	return execution, nil
}

// walk fetches one Target, mirrors it and, for HTML, collects the references
// it links to. It owns the response body and closes it on every path.
func (s *Scheduler) walk(ctx context.Context, token frontier.CrawlToken) walkOutcome {
	target := token.URL()
	outcome := walkOutcome{token: token}
	s.metadataSink.RecordVisit(target.String(), frontier.Fetching.String(), token.Depth())

	fetchResult, err := s.fetcher.Fetch(ctx, token.Depth(), fetcher.NewFetchParam(target, s.userAgent))
	if err != nil {
		// recoverable → log already done → count error
		return s.abandon(outcome)
	}
	defer fetchResult.Close()

	effective := fetchResult.EffectiveURL()

	if !fetchResult.IsHTML() {
		writeResult, err := s.storageSink.Write(target, effective, fetchResult.Body())
		if err != nil {
			return s.abandon(outcome)
		}
		return s.done(outcome, writeResult)
	}

	// HTML is buffered once: the same bytes go to the mirror and the extractor
	body, readErr := fetchResult.ReadAll()
	if readErr != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			"FetchResult.ReadAll",
			fetcher.MetadataCause(readErr),
			readErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, target.String()),
				metadata.NewAttr(metadata.AttrEffectiveURL, effective.String()),
			},
		)
		return s.abandon(outcome)
	}

	writeResult, err := s.storageSink.Write(target, effective, bytes.NewReader(body))
	if err != nil {
		return s.abandon(outcome)
	}
	outcome = s.done(outcome, writeResult)

	for discovered, err := range s.linkExtractor.Extract(effective, bytes.NewReader(body)) {
		if err != nil {
			// malformed reference → recorded by the extractor → count and drop
			outcome.errorCount++
			continue
		}
		outcome.discovered = append(outcome.discovered, discovered)
	}
	return outcome
}

func (s *Scheduler) done(outcome walkOutcome, writeResult storage.WriteResult) walkOutcome {
	target := outcome.token.URL()
	s.frontier.MarkDone(target)
	s.metadataSink.RecordVisit(target.String(), frontier.Done.String(), outcome.token.Depth())
	outcome.writeResult = &writeResult
	return outcome
}

// abandon leaves the Target seen but never finished; it is not retried.
func (s *Scheduler) abandon(outcome walkOutcome) walkOutcome {
	target := outcome.token.URL()
	s.frontier.Abandon(target)
	s.metadataSink.RecordVisit(target.String(), frontier.Pending.String(), outcome.token.Depth())
	outcome.errorCount++
	return outcome
}

// ---------------------------------------------------------------------------
// Test Helper Methods
// These methods are exported to enable testing of SubmitUrlForAdmission()
// and other scheduler internals. They are not part of the public API.
// ---------------------------------------------------------------------------

// FrontierVisitedCount returns the number of URLs in the frontier's visited set.
func (s *Scheduler) FrontierVisitedCount() int {
	return s.frontier.VisitedCount()
}

// FrontierState returns the visit state of u.
func (s *Scheduler) FrontierState(u url.URL) frontier.VisitState {
	return s.frontier.State(u)
}

// DequeueFromFrontier dequeues a token from the frontier.
func (s *Scheduler) DequeueFromFrontier() (frontier.CrawlToken, bool) {
	return s.frontier.Dequeue()
}
