package httpmsg

// Method is one of the eight HTTP/1.1 methods the parser recognizes.
// Only Get, Head, and Post are ever dispatched past the Connection Engine;
// the rest parse successfully but are rejected with 501 by the engine's
// dispatch policy.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// ValidMethods enumerates every method literal the parser accepts.
var ValidMethods = map[Method]bool{
	MethodGet:     true,
	MethodHead:    true,
	MethodPost:    true,
	MethodPut:     true,
	MethodDelete:  true,
	MethodConnect: true,
	MethodOptions: true,
	MethodTrace:   true,
}

// MaxPathLength is the maximum decoded path length the parser accepts
// (spec.md §3, §8: 8000 succeeds, 8001 fails with uri-too-long).
const MaxPathLength = 8000

// Request is a fully parsed HTTP/1.1 request. Path and Query are already
// percent-decoded; Payload, when present, is the form-decoded POST body.
type Request struct {
	Method     Method
	Path       string
	HasQuery   bool
	Query      string
	Headers    Headers
	KeepAlive  bool
	Payload    []byte
	HasPayload bool
}

// HeaderValue is a convenience case-insensitive header lookup on Request.
func (r *Request) HeaderValue(name string) (string, bool) {
	return r.Headers.Get(name)
}
