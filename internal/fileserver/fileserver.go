// Package fileserver implements the static file branch of spec.md §4.E's
// dispatch policy: stat the sanitized path, classify filesystem errors into
// the four kinds spec.md §7 names, and derive a Content-Type.
// Grounded on original_source/src/child.c and src/io/file_io.c.
package fileserver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Z1ni/zhttpd/internal/httpmsg"
)

// FailureKind enumerates the File I/O failure categories from spec.md §7.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNoEntry
	FailureIsDirectory
	FailureNoAccess
	FailureGeneral
)

// Error carries a categorized FailureKind so the Connection Engine can map
// it to an HTTP status: no-entry/is-directory → 404, no-access → 403,
// general → 500.
type Error struct {
	Kind FailureKind
}

func (e *Error) Error() string {
	switch e.Kind {
	case FailureNoEntry:
		return "fileserver: no such file"
	case FailureIsDirectory:
		return "fileserver: is a directory"
	case FailureNoAccess:
		return "fileserver: permission denied"
	default:
		return "fileserver: general I/O error"
	}
}

// FileResult is the outcome of a successful Lookup: the resolved absolute
// path and its contents, ready to stream into a Response body.
type FileResult struct {
	Path string
	Body []byte
}

// Lookup reads the file at resolvedPath, which internal/pathsafe.Sanitize
// has already composed as an absolute path under the webroot. If
// resolvedPath names an existing directory, Lookup re-resolves to
// "<path>/index.html" per spec.md §4.A's "append index.html if the
// resolved path denotes an existing directory" rule — the half of that
// rule requiring a filesystem stat, which internal/pathsafe (pure string
// manipulation) cannot perform itself.
func Lookup(resolvedPath string) (*FileResult, error) {
	full := resolvedPath

	info, err := os.Stat(full)
	if err != nil {
		return nil, classifyStatError(err)
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
		if err != nil {
			return nil, classifyStatError(err)
		}
		if info.IsDir() {
			return nil, &Error{Kind: FailureIsDirectory}
		}
	}

	body, err := os.ReadFile(full)
	if err != nil {
		return nil, classifyStatError(err)
	}
	return &FileResult{Path: full, Body: body}, nil
}

func classifyStatError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Kind: FailureNoEntry}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Kind: FailureNoAccess}
	default:
		return &Error{Kind: FailureGeneral}
	}
}

// ContentType applies the method-derived override rules from spec.md §4.E
// before falling back to the detect collaborator (internal/mimedetect).
func ContentType(path string, body []byte, detect httpmsg.MimeDetector) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(ext) {
	case "html", "htm":
		return "text/html"
	case "css":
		return "text/css"
	}
	if ct, ok := detect(body); ok {
		return ct
	}
	return "application/octet-stream"
}
