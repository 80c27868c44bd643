package storage

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// MirrorPath derives the local file for an effective address:
// mirrorDir joined with the address path.
//
// The path is cleaned as a rooted path first, so ".." segments cannot
// climb out of mirrorDir. Query and fragment do not take part.
//
// Deviation from a plain join: a path that names a directory (empty, or
// ending in "/") is stored as indexFileName inside that directory.
// Writing the bare directory path would fail, since a directory cannot
// be opened as a file, and the root page would never be mirrored.
func MirrorPath(mirrorDir string, effective url.URL, indexFileName string) string {
	raw := effective.Path
	dirLike := raw == "" || strings.HasSuffix(raw, "/")

	rel := path.Clean("/" + raw)
	if dirLike || rel == "/" {
		rel = path.Join(rel, indexFileName)
	}
	return filepath.Join(mirrorDir, filepath.FromSlash(rel))
}
