package storage

// Persistence

type WriteResult struct {
	path        string
	contentHash string
	sizeByte    int64
	previousURL string // set when a different Target wrote this path earlier in the run
}

func NewWriteResult(
	path string,
	contentHash string,
	sizeByte int64,
) WriteResult {
	return WriteResult{
		path:        path,
		contentHash: contentHash,
		sizeByte:    sizeByte,
	}
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}

func (w *WriteResult) SizeByte() int64 {
	return w.sizeByte
}

// Collided reports whether this write replaced the mirror file of a
// different effective address.
func (w *WriteResult) Collided() bool {
	return w.previousURL != ""
}
