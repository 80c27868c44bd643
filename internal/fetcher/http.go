package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
)

/*
Responsibilities

- Perform HTTP GET requests
- Apply headers
- Let the client follow redirects and report the effective address
- Classify responses

Fetch Semantics

- Only a 200 response is handed back; its body is left unread
- Every other status is an error and its body is closed here
- All responses are logged with metadata

The fetcher never parses content and never touches the disk.
*/

type HttpFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
}

// NewHttpFetcher uses a default client when httpClient is nil.
func NewHttpFetcher(
	metadataSink metadata.MetadataSink,
	httpClient *http.Client,
) HttpFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return HttpFetcher{
		metadataSink: metadataSink,
		httpClient:   httpClient,
	}
}

func (h *HttpFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam FetchParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HttpFetcher.Fetch"
	startTime := time.Now()

	result, err := h.performFetch(ctx, fetchParam.fetchUrl, fetchParam.userAgent)

	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	effectiveUrl := fetchParam.fetchUrl
	if err == nil {
		statusCode = result.Code()
		contentType = result.ContentType()
		effectiveUrl = result.EffectiveURL()
	} else {
		statusCode = err.StatusCode
	}

	h.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		effectiveUrl.String(),
		statusCode,
		duration,
		contentType,
		crawlDepth,
	)

	if err != nil {
		h.recordFetchError(callerMethod, fetchParam.fetchUrl, err)
		return FetchResult{}, err
	}

	return result, nil
}

func (h *HttpFetcher) recordFetchError(callerMethod string, fetchUrl url.URL, err *FetchError) {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrURL, fetchUrl.String()),
	}
	if err.StatusCode != 0 {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(err.StatusCode)))
	}
	h.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapFetchErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

func (h *HttpFetcher) performFetch(ctx context.Context, fetchUrl url.URL, userAgent string) (FetchResult, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseInvalidRequest,
			URL:     fetchUrl.String(),
		}
	}

	for key, value := range requestHeaders(userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// covers DNS, refused connections, timeouts, redirect loops and cancellation
		var urlErr *url.Error
		message := err.Error()
		if errors.As(err, &urlErr) {
			message = urlErr.Err.Error()
		}
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("request failed: %s", message),
			Cause:   ErrCauseNetworkFailure,
			URL:     fetchUrl.String(),
		}
	}

	effectiveUrl := fetchUrl
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveUrl = *resp.Request.URL
	}

	if resp.StatusCode != http.StatusOK {
		// drain a little so the connection can be reused, then release it
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		resp.Body.Close()
		return FetchResult{}, &FetchError{
			Message:    http.StatusText(resp.StatusCode),
			Cause:      ErrCauseUnexpectedStatus,
			URL:        effectiveUrl.String(),
			StatusCode: resp.StatusCode,
		}
	}

	return FetchResult{
		url:          fetchUrl,
		effectiveUrl: effectiveUrl,
		body:         resp.Body,
		meta: ResponseMeta{
			statusCode:  resp.StatusCode,
			contentType: resp.Header.Get("Content-Type"),
		},
	}, nil
}

// Accept-Encoding is left to the transport so compressed bodies
// are decoded before they reach the mirror.
func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "*/*",
	}
}
