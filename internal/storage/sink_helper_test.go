package storage_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/hashutil"
	"github.com/stretchr/testify/require"
)

type recordedError struct {
	packageName string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

type recordedArtifact struct {
	kind  metadata.ArtifactKind
	path  string
	attrs []metadata.Attribute
}

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	metadata.NoopSink
	errors    []recordedError
	artifacts []recordedArtifact
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errors = append(m.errors, recordedError{
		packageName: packageName,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.artifacts = append(m.artifacts, recordedArtifact{kind: kind, path: path, attrs: attrs})
}

func attrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// flakyBody yields its prefix, then fails like a dropped connection.
type flakyBody struct {
	prefix []byte
	sent   bool
}

func (f *flakyBody) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, f.prefix), nil
	}
	return 0, errors.New("unexpected EOF from peer")
}

func hashOf(t *testing.T, content []byte, algo hashutil.HashAlgo) string {
	t.Helper()
	h, err := hashutil.NewHasher(algo)
	require.NoError(t, err)
	_, err = h.Write(content)
	require.NoError(t, err)
	return hashutil.Sum(h)
}
