package frontier_test

import (
	"testing"

	"github.com/rohmanhakim/site-mirror/internal/frontier"
	"github.com/stretchr/testify/assert"
)

func TestVisitedSet_TryMark(t *testing.T) {
	v := frontier.NewVisitedSet()
	u := mustURL(t, "http://example.test/")

	assert.Equal(t, frontier.Unseen, v.State(u))
	assert.True(t, v.TryMark(u, frontier.Pending))
	assert.False(t, v.TryMark(u, frontier.Pending))
	assert.False(t, v.TryMark(u, frontier.Done), "a lost TryMark must not overwrite state")
	assert.Equal(t, frontier.Pending, v.State(u))
	assert.Equal(t, 1, v.Size())
}

func TestVisitedSet_Transition(t *testing.T) {
	v := frontier.NewVisitedSet()
	u := mustURL(t, "http://example.test/x")

	assert.False(t, v.Transition(u, frontier.Done), "cannot transition an unseen URL")
	assert.Equal(t, frontier.Unseen, v.State(u))

	v.TryMark(u, frontier.Pending)
	assert.True(t, v.Transition(u, frontier.Fetching))
	assert.Equal(t, frontier.Fetching, v.State(u))
	assert.Equal(t, 1, v.Count(frontier.Fetching))
}

func TestVisitState_String(t *testing.T) {
	assert.Equal(t, "Unseen", frontier.Unseen.String())
	assert.Equal(t, "Pending", frontier.Pending.String())
	assert.Equal(t, "Fetching", frontier.Fetching.String())
	assert.Equal(t, "Done", frontier.Done.String())
}
