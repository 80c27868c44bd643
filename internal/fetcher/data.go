package fetcher

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// HTTP boundary

const htmlContentTypePrefix = "text/html"

type FetchParam struct {
	fetchUrl  url.URL
	userAgent string
}

func NewFetchParam(fetchUrl url.URL, userAgent string) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
	}
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

/*
FetchResult is a 200 response whose body has not been consumed yet.

The holder owns Body and MUST call Close on every path,
whether or not the body was read.
*/
type FetchResult struct {
	url          url.URL
	effectiveUrl url.URL
	body         io.ReadCloser
	meta         ResponseMeta
}

// URL is the address that was requested.
func (f *FetchResult) URL() url.URL {
	return f.url
}

// EffectiveURL is the address the transport ended at after following redirects.
func (f *FetchResult) EffectiveURL() url.URL {
	return f.effectiveUrl
}

func (f *FetchResult) Body() io.Reader {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

// IsHTML is a case-sensitive prefix match on the raw Content-Type header.
// A missing header is not HTML.
func (f *FetchResult) IsHTML() bool {
	return strings.HasPrefix(f.meta.contentType, htmlContentTypePrefix)
}

// ReadAll buffers the whole body.
// A body that breaks off mid-read is a transport failure.
func (f *FetchResult) ReadAll() ([]byte, *FetchError) {
	data, err := io.ReadAll(f.body)
	if err != nil {
		return nil, &FetchError{
			Message: fmt.Sprintf("%v", err),
			Cause:   ErrCauseReadResponseBody,
			URL:     f.effectiveUrl.String(),
		}
	}
	return data, nil
}

func (f *FetchResult) Close() error {
	if f.body == nil {
		return nil
	}
	return f.body.Close()
}

type ResponseMeta struct {
	statusCode  int
	contentType string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	requestUrl url.URL,
	effectiveUrl url.URL,
	body io.ReadCloser,
	statusCode int,
	contentType string,
) FetchResult {
	return FetchResult{
		url:          requestUrl,
		effectiveUrl: effectiveUrl,
		body:         body,
		meta: ResponseMeta{
			statusCode:  statusCode,
			contentType: contentType,
		},
	}
}
