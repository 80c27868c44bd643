package scheduler_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// siteTransport serves in-memory sites keyed by host.
// Responses are built by hand so no content type is ever sniffed.
type siteTransport struct {
	sites map[string]http.Handler

	mu         sync.Mutex
	requests   []string
	openBodies int
}

func newSiteTransport() *siteTransport {
	return &siteTransport{sites: make(map[string]http.Handler)}
}

func (t *siteTransport) handle(host string, handler http.Handler) {
	t.sites[host] = handler
}

func (t *siteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req.URL.String())
	t.mu.Unlock()

	handler, ok := t.sites[req.URL.Host]
	if !ok {
		return nil, fmt.Errorf("dial tcp: lookup %s: no such host", req.URL.Host)
	}

	recorded := newBufferedResponse()
	handler.ServeHTTP(recorded, req)

	t.mu.Lock()
	t.openBodies++
	t.mu.Unlock()

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", recorded.status, http.StatusText(recorded.status)),
		StatusCode:    recorded.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        recorded.header,
		Body:          &trackedBody{Reader: bytes.NewReader(recorded.body.Bytes()), transport: t},
		ContentLength: int64(recorded.body.Len()),
		Request:       req,
	}, nil
}

// requested lists every request URL in arrival order.
func (t *siteTransport) requested() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.requests...)
}

func (t *siteTransport) requestCount(target string) int {
	count := 0
	for _, r := range t.requested() {
		if r == target {
			count++
		}
	}
	return count
}

func (t *siteTransport) unclosedBodies() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openBodies
}

type trackedBody struct {
	io.Reader
	transport *siteTransport
	once      sync.Once
}

func (b *trackedBody) Close() error {
	b.once.Do(func() {
		b.transport.mu.Lock()
		b.transport.openBodies--
		b.transport.mu.Unlock()
	})
	return nil
}

type bufferedResponse struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (r *bufferedResponse) Header() http.Header {
	return r.header
}

func (r *bufferedResponse) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
}

func (r *bufferedResponse) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.body.Write(p)
}

// page serves body with the given content type; an empty type sends no header.
func page(contentType string, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = io.WriteString(w, body)
	}
}

func htmlPage(body string) http.HandlerFunc {
	return page("text/html; charset=utf-8", body)
}
