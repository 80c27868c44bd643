package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
	"github.com/rohmanhakim/site-mirror/pkg/fileutil"
	"github.com/rohmanhakim/site-mirror/pkg/hashutil"
)

/*
Responsibilities
- Persist fetched bytes verbatim under the mirror directory
- Create parent directories before writing
- Report two Targets landing on the same local path

Output Characteristics
- Layout mirrors the remote path hierarchy
- A file appears only once its whole body was written
- Colliding writes are reported, then last writer wins
*/

type Sink interface {
	Write(
		source url.URL,
		effective url.URL,
		body io.Reader,
	) (WriteResult, failure.ClassifiedError)
}

type MirrorSink struct {
	metadataSink  metadata.MetadataSink
	mirrorDir     string
	indexFileName string
	hashAlgo      hashutil.HashAlgo

	mu     sync.Mutex
	owners map[string]string // local path -> effective address that last wrote it
}

func NewMirrorSink(
	metadataSink metadata.MetadataSink,
	mirrorDir string,
	indexFileName string,
	hashAlgo hashutil.HashAlgo,
) *MirrorSink {
	return &MirrorSink{
		metadataSink:  metadataSink,
		mirrorDir:     mirrorDir,
		indexFileName: indexFileName,
		hashAlgo:      hashAlgo,
		owners:        make(map[string]string),
	}
}

func (s *MirrorSink) Write(
	source url.URL,
	effective url.URL,
	body io.Reader,
) (WriteResult, failure.ClassifiedError) {
	callerMethod := "MirrorSink.Write"
	targetPath := MirrorPath(s.mirrorDir, effective, s.indexFileName)

	writeResult, err := s.write(targetPath, body)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			callerMethod,
			mapStorageErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, source.String()),
				metadata.NewAttr(metadata.AttrEffectiveURL, effective.String()),
				metadata.NewAttr(metadata.AttrWritePath, err.Path),
			},
		)
		return WriteResult{}, err
	}

	if previous := s.claim(targetPath, effective.String()); previous != "" {
		writeResult.previousURL = previous
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			callerMethod,
			metadata.CauseInvariantViolation,
			fmt.Sprintf("mirror path collision: %s overwrote %s", effective.String(), previous),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, targetPath),
				metadata.NewAttr(metadata.AttrEffectiveURL, effective.String()),
				metadata.NewAttr(metadata.AttrPreviousURL, previous),
			},
		)
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactMirror,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, source.String()),
			metadata.NewAttr(metadata.AttrEffectiveURL, effective.String()),
			metadata.NewAttr(metadata.AttrContentHash, writeResult.ContentHash()),
			metadata.NewAttr(metadata.AttrSizeByte, strconv.FormatInt(writeResult.SizeByte(), 10)),
		},
	)
	return writeResult, nil
}

// claim records owner as the last writer of path and returns the
// previous owner when it differs.
func (s *MirrorSink) claim(path string, owner string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, taken := s.owners[path]
	s.owners[path] = owner
	if !taken || previous == owner {
		return ""
	}
	return previous
}

// write copies body into a temporary file next to targetPath and renames
// it into place once the copy finished.
func (s *MirrorSink) write(targetPath string, body io.Reader) (WriteResult, *StorageError) {
	if err := fileutil.EnsureParentDir(targetPath); err != nil {
		cause := ErrCauseWriteFailure
		var fileErr *fileutil.FileError
		if errors.As(err, &fileErr) && fileErr.Cause == fileutil.ErrCauseNotDirectory {
			cause = ErrCausePathConflict
		}
		return WriteResult{}, &StorageError{
			Message: err.Error(),
			Cause:   cause,
			Path:    targetPath,
		}
	}

	hasher, err := hashutil.NewHasher(s.hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseHashComputationFailed,
			Path:    targetPath,
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(targetPath), ".site-mirror-*.tmp")
	if err != nil {
		return WriteResult{}, writeError(err, targetPath)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	source := &sourceReader{reader: body}
	written, err := io.Copy(io.MultiWriter(tmp, hasher), source)
	if err != nil {
		if source.err != nil {
			return WriteResult{}, &StorageError{
				Message: source.err.Error(),
				Cause:   ErrCauseSourceRead,
				Path:    targetPath,
			}
		}
		return WriteResult{}, writeError(err, targetPath)
	}

	if err := tmp.Chmod(0644); err != nil {
		return WriteResult{}, writeError(err, targetPath)
	}
	if err := tmp.Close(); err != nil {
		return WriteResult{}, writeError(err, targetPath)
	}
	if err := os.Rename(tmp.Name(), targetPath); err != nil {
		return WriteResult{}, writeError(err, targetPath)
	}
	committed = true

	return NewWriteResult(targetPath, hashutil.Sum(hasher), written), nil
}

func writeError(err error, targetPath string) *StorageError {
	cause := ErrCauseWriteFailure
	switch {
	case errors.Is(err, syscall.ENOSPC):
		cause = ErrCauseDiskFull
	case errors.Is(err, syscall.EISDIR), errors.Is(err, syscall.EEXIST), errors.Is(err, syscall.ENOTEMPTY):
		// a directory already sits where the file should go
		cause = ErrCausePathConflict
	}
	return &StorageError{
		Message: err.Error(),
		Cause:   cause,
		Path:    targetPath,
	}
}

// sourceReader tells a failing response body apart from a failing disk.
type sourceReader struct {
	reader io.Reader
	err    error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}
