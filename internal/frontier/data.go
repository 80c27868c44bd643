package frontier

import (
	"net/url"
)

// VisitState is the lifecycle of one Target within a single run.
// The zero value stands for "never seen" and is never stored.
type VisitState int

const (
	Unseen VisitState = iota
	Pending
	Fetching
	Done
)

func (s VisitState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Fetching:
		return "Fetching"
	case Done:
		return "Done"
	default:
		return "Unseen"
	}
}

type SourceContext string

const (
	SourceSeed  SourceContext = "Seed"
	SourceCrawl SourceContext = "Crawl"
)

// CrawlAdmissionCandidate represents a URL that has already been
// admitted by the scheduler.
//
// Invariants:
// - Host scope has been enforced
// - Frontier MUST treat this as an admitted URL
// - Frontier MUST NOT re-evaluate admission semantics
type CrawlAdmissionCandidate struct {
	targetURL         url.URL // Frontier MUST assume this URL is already admitted.
	sourceContext     SourceContext
	discoveryMetadata DiscoveryMetadata
}

func NewCrawlAdmissionCandidate(
	targetUrl url.URL,
	sourceContext SourceContext,
	discoveryMetadata DiscoveryMetadata,
) CrawlAdmissionCandidate {
	return CrawlAdmissionCandidate{
		targetURL:         targetUrl,
		sourceContext:     sourceContext,
		discoveryMetadata: discoveryMetadata,
	}
}

func (c CrawlAdmissionCandidate) TargetURL() url.URL {
	return c.targetURL
}

func (c CrawlAdmissionCandidate) SourceContext() SourceContext {
	return c.sourceContext
}

func (c CrawlAdmissionCandidate) DiscoveryMetadata() DiscoveryMetadata {
	return c.discoveryMetadata
}

type DiscoveryMetadata struct {
	depth int
}

func NewDiscoveryMetadata(depth int) DiscoveryMetadata {
	return DiscoveryMetadata{depth: depth}
}

func (d DiscoveryMetadata) Depth() int {
	return d.depth
}

// CrawlToken is handed out by Dequeue. Holding one means the holder owns
// the fetch of its URL: no other token for the same URL exists in this run.
type CrawlToken struct {
	url   url.URL
	depth int
}

func NewCrawlToken(u url.URL, depth int) CrawlToken {
	return CrawlToken{url: u, depth: depth}
}

func (c CrawlToken) URL() url.URL {
	return c.url
}

func (c CrawlToken) Depth() int {
	return c.depth
}
