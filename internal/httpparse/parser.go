// Package httpparse implements the two-phase HTTP/1.1 request parser from
// spec.md §4.C: a lenient line splitter (phase 1, lines.go) followed by
// structural validation that builds a httpmsg.Request (phase 2, this file).
// Grounded on original_source/src/http/http_request_parser.c.
package httpparse

import (
	"bytes"
	"strings"

	"github.com/Z1ni/zhttpd/internal/httpmsg"
	"github.com/Z1ni/zhttpd/internal/urlcodec"
)

// Result is the tagged variant spec.md §9 calls for in place of the
// original's sentinel integer return codes: exactly one of NeedMore,
// Err, or Request is meaningful for a given Result.
type Result struct {
	// NeedMore is true when the accumulator does not yet hold a complete
	// request; the caller should append more bytes and retry.
	NeedMore bool

	// Err is set on a parse failure. For ErrUnsupportedFormEncoding,
	// Request is also populated (spec.md §4.C step 8: "return a
	// partially-populated Request together with unsupported-form-encoding").
	Err *Error

	// Request and Consumed are set on success (Err == nil && !NeedMore).
	Request  *httpmsg.Request
	Consumed int
}

// Parse attempts to parse one HTTP/1.1 request from the front of data.
func Parse(data []byte) Result {
	lines, payloadStart, complete := splitHeaderLines(data)
	if !complete {
		return Result{NeedMore: true}
	}
	if len(lines) == 0 {
		return Result{NeedMore: true}
	}

	requestLine := strings.Split(string(lines[0]), " ")
	if len(requestLine) != 3 {
		return Result{Err: &Error{Kind: ErrMalformedRequest}}
	}
	methodTok, pathTok, protoTok := requestLine[0], requestLine[1], requestLine[2]

	method := httpmsg.Method(methodTok)
	if !httpmsg.ValidMethods[method] {
		return Result{Err: &Error{Kind: ErrInvalidMethod}}
	}

	rawPath := pathTok
	var rawQuery string
	hasQuery := false
	if idx := strings.IndexByte(pathTok, '?'); idx >= 0 {
		rawPath = pathTok[:idx]
		rawQuery = pathTok[idx+1:]
		hasQuery = true
	}

	decodedPath, err := urlcodec.Decode([]byte(rawPath))
	if err != nil {
		return Result{Err: &Error{Kind: ErrMalformedRequest}}
	}
	if len(decodedPath) > httpmsg.MaxPathLength {
		return Result{Err: &Error{Kind: ErrURITooLong}}
	}

	if protoTok != "HTTP/1.1" {
		return Result{Err: &Error{Kind: ErrUnsupportedProtocol}}
	}

	req := &httpmsg.Request{
		Method: method,
		Path:   string(decodedPath),
	}
	if hasQuery {
		decodedQuery, err := urlcodec.Decode([]byte(rawQuery))
		if err != nil {
			return Result{Err: &Error{Kind: ErrMalformedRequest}}
		}
		req.HasQuery = true
		req.Query = string(decodedQuery)
	}

	headers, parseErr := parseHeaderFields(lines[1:])
	if parseErr != nil {
		return Result{Err: parseErr}
	}
	req.Headers = headers

	if headers.Count("Host") < 1 {
		return Result{Err: &Error{Kind: ErrMissingHost}}
	}

	if value, ok := headers.Get("Connection"); ok && strings.EqualFold(value, "keep-alive") {
		req.KeepAlive = true
	}

	consumed := payloadStart
	if method == httpmsg.MethodPost {
		if lengthValue, ok := headers.Get("Content-Length"); ok {
			length, ok := parseContentLength(lengthValue)
			if !ok {
				return Result{Err: &Error{Kind: ErrMalformedRequest}}
			}
			available := data[payloadStart:]
			if len(available) < length {
				return Result{NeedMore: true}
			}
			rawPayload := available[:length]
			consumed = payloadStart + length

			contentType, _ := headers.Get("Content-Type")
			if !strings.EqualFold(strings.TrimSpace(contentType), "application/x-www-form-urlencoded") {
				return Result{Err: &Error{Kind: ErrUnsupportedFormEncoding}, Request: req}
			}

			if decoded, err := urlcodec.Decode(rawPayload); err == nil {
				req.Payload = decoded
				req.HasPayload = true
			}
		}
	}

	return Result{Request: req, Consumed: consumed}
}

// parseHeaderFields parses header lines into httpmsg.Headers, rejecting
// obsolete line-folding (RFC 7230 §3.2.4) and lines that don't split into
// a colon-terminated name and a value.
func parseHeaderFields(lines [][]byte) (httpmsg.Headers, *Error) {
	var headers httpmsg.Headers
	for _, line := range lines {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			return nil, &Error{Kind: ErrMalformedRequest}
		}
		idx := bytes.IndexByte(line, ' ')
		if idx < 0 {
			return nil, &Error{Kind: ErrMalformedRequest}
		}
		name := string(line[:idx])
		if !strings.HasSuffix(name, ":") {
			return nil, &Error{Kind: ErrMalformedRequest}
		}
		name = strings.TrimSuffix(name, ":")
		value := string(line[idx+1:])
		headers.Add(name, value)
	}
	return headers, nil
}

func parseContentLength(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n := 0
	for _, c := range value {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
