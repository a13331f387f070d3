// Package pathsafe composes a webroot and a request path into a filesystem
// path, rejecting traversal attempts and invalid characters. Grounded on
// original_source/src/utils.c:create_real_path.
package pathsafe

import (
	"errors"
	"strings"
)

// FailureKind categorizes why Sanitize rejected a path (spec.md §4.A).
type FailureKind int

const (
	// FailureNone indicates success; Sanitize's error return is nil.
	FailureNone FailureKind = iota
	// FailureExploit is rule 1: a ".." segment, a traversal attempt.
	FailureExploit
	// FailureInvalid is rule 2 or 3: "//", "/.", or a disallowed byte.
	FailureInvalid
)

// Error wraps a FailureKind so callers can distinguish exploit attempts
// (worth logging loudly) from merely invalid paths.
type Error struct {
	Kind FailureKind
}

func (e *Error) Error() string {
	switch e.Kind {
	case FailureExploit:
		return "pathsafe: path traversal attempt"
	default:
		return "pathsafe: invalid path"
	}
}

var errEmptyWebroot = errors.New("pathsafe: webroot must not be empty")

// Sanitize composes webroot and the decoded request path into a filesystem
// path. The rules are applied in order, scanning the request path after an
// optional single leading '/':
//
//  1. two consecutive '.' characters -> exploit
//  2. "//" or "/." -> invalid
//  3. only '-'..'9', 'A'..'Z', 'a'..'z', '_' are accepted. Note this ASCII
//     range deliberately (per the original implementation) also admits '.',
//     '/', and all digits; see DESIGN.md for why this is kept as-is rather
//     than narrowed.
//  4. if the resolved path ends in '/', "index.html" is appended.
func Sanitize(webroot, requestPath string) (string, error) {
	if webroot == "" {
		return "", errEmptyWebroot
	}

	var out strings.Builder
	out.WriteString(webroot)
	if !strings.HasSuffix(webroot, "/") {
		out.WriteByte('/')
	}

	start := 0
	if len(requestPath) > 0 && requestPath[0] == '/' {
		start = 1
	}

	prev := byte('/')
	lastWritten := byte(0)
	for i := start; i < len(requestPath); i++ {
		c := requestPath[i]

		if c == '.' && prev == '.' {
			return "", &Error{Kind: FailureExploit}
		}
		if (c == '/' && prev == '/') || (c == '.' && prev == '/') {
			return "", &Error{Kind: FailureInvalid}
		}
		if !isAllowed(c) {
			return "", &Error{Kind: FailureInvalid}
		}

		out.WriteByte(c)
		lastWritten = c
		prev = c
	}

	if lastWritten == '/' || lastWritten == 0 {
		out.WriteString("index.html")
	}

	return out.String(), nil
}

// isAllowed implements rule 3's allow-list exactly as the original source
// does: the ASCII range '-' (0x2D) through '9' (0x39) also admits '.', '/',
// and digits, which is intentional here — see the doc comment on Sanitize.
func isAllowed(c byte) bool {
	return (c >= '-' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}
