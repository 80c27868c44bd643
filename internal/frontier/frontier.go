package frontier

import (
	"net/url"
	"sync"
)

/*
Frontier Responsibilities
- Maintain FIFO ordering of admitted URLs
- Deduplicate URLs (at most one token per URL per run)
- Track the VisitState of every URL it has seen
- Knows nothing about:
  - host scope
  - fetching
  - extraction
  - storage

It is a data structure + policy module, not a pipeline executor.
*/
type Frontier struct {
	mu      sync.Mutex
	queue   *FIFOQueue[CrawlToken]
	visited *VisitedSet
}

func NewFrontier() *Frontier {
	return &Frontier{
		queue:   NewFIFOQueue[CrawlToken](),
		visited: NewVisitedSet(),
	}
}

// Submit marks the candidate Pending and queues it.
// A URL seen before, in any state, is dropped and Submit returns false.
func (f *Frontier) Submit(candidate CrawlAdmissionCandidate) bool {
	if !f.visited.TryMark(candidate.targetURL, Pending) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue.Enqueue(NewCrawlToken(candidate.targetURL, candidate.discoveryMetadata.depth))
	return true
}

// Dequeue hands out the oldest queued token and marks its URL Fetching.
// Returns false if the queue is empty.
func (f *Frontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	token, ok := f.queue.Dequeue()
	f.mu.Unlock()

	if !ok {
		return CrawlToken{}, false
	}
	f.visited.Transition(token.url, Fetching)
	return token, true
}

// MarkDone records that the URL was fetched and its mirror file closed.
func (f *Frontier) MarkDone(u url.URL) {
	f.visited.Transition(u, Done)
}

// Abandon puts a failed URL back to Pending without re-queueing it.
// The URL stays seen, so it is never attempted again in this run.
func (f *Frontier) Abandon(u url.URL) {
	f.visited.Transition(u, Pending)
}

func (f *Frontier) State(u url.URL) VisitState {
	return f.visited.State(u)
}

func (f *Frontier) QueueSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Size()
}

func (f *Frontier) VisitedCount() int {
	return f.visited.Size()
}

func (f *Frontier) CountByState(state VisitState) int {
	return f.visited.Count(state)
}
