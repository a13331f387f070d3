package httpparse

import "github.com/Z1ni/zhttpd/internal/httpmsg"

// ParseHeaderBlock runs phase 1 (line splitting) and the header-field half
// of phase 2 over data, without any request-line validation. It is the
// entry point the CGI Runner (internal/cgi) reuses to parse a CGI
// program's output, per spec.md §4.F step 6: "Parse the buffer as HTTP
// response headers using §4.C phase 1."
func ParseHeaderBlock(data []byte) (headers httpmsg.Headers, bodyStart int, ok bool) {
	lines, payloadStart, complete := splitHeaderLines(data)
	if !complete {
		return nil, 0, false
	}
	headers, err := parseHeaderFields(lines)
	if err != nil {
		return nil, 0, false
	}
	return headers, payloadStart, true
}
