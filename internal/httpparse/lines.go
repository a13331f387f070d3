package httpparse

// splitHeaderLines implements spec.md §4.C phase 1: it walks data looking
// for the blank line that ends the header block, tolerating both CRLF and
// bare LF line endings. It returns the header lines (without their
// terminators) and the offset of the first payload byte. complete is false
// if no blank line was found yet, meaning the caller needs more data.
//
// Grounded on original_source/src/http/http_request_parser.c's
// http_request_parse_header_lines, redesigned from its char-by-char state
// machine into a straightforward index scan (spec.md §9: replace sentinel
// integer states with values a Go reader expects).
func splitHeaderLines(data []byte) (lines [][]byte, payloadStart int, complete bool) {
	lineStart := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		lineEnd := i
		if lineEnd > lineStart && data[lineEnd-1] == '\r' {
			lineEnd--
		}
		line := data[lineStart:lineEnd]
		if len(line) == 0 {
			return lines, i + 1, true
		}
		lines = append(lines, line)
		lineStart = i + 1
	}
	return nil, 0, false
}
