package scheduler_test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/rohmanhakim/site-mirror/internal/fetcher"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// fetcherMock is a testify-based mock for the Fetcher interface.
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam fetcher.FetchParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, crawlDepth, fetchParam)
	result := args.Get(0).(fetcher.FetchResult)
	if err, ok := args.Get(1).(failure.ClassifiedError); ok && err != nil {
		return result, err
	}
	return result, nil
}

// forPath matches a FetchParam whose URL has the given path.
func forPath(path string) any {
	return mock.MatchedBy(func(p fetcher.FetchParam) bool {
		u := p.URL()
		return u.Path == path
	})
}

func okResult(t string, contentType string, body io.ReadCloser) fetcher.FetchResult {
	u, err := url.Parse(t)
	if err != nil {
		panic(err)
	}
	return fetcher.NewFetchResultForTest(*u, *u, body, 200, contentType)
}

func stringBody(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

// brokenBody yields prefix and then fails as if the connection dropped.
type brokenBody struct {
	prefix string
	read   bool
	closed bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if !b.read {
		b.read = true
		return copy(p, b.prefix), nil
	}
	return 0, errors.New("connection reset by peer")
}

func (b *brokenBody) Close() error {
	b.closed = true
	return nil
}
