package fetcher

import (
	"context"

	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
	) (FetchResult, failure.ClassifiedError)
}
