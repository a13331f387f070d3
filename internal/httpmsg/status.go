package httpmsg

// StatusEntry pairs a status code's reason phrase with the short message
// used to fill in a canned error page body.
type StatusEntry struct {
	Reason string
	ErrMsg string
}

// statusTable is the fixed status-code → (reason, error message) mapping.
// Grounded on original_source/src/http/http.c's status_entries array.
var statusTable = map[int]StatusEntry{
	200: {Reason: "OK"},
	400: {Reason: "Bad Request", ErrMsg: "Received request was malformed."},
	403: {Reason: "Forbidden", ErrMsg: "File access forbidden."},
	404: {Reason: "Not Found", ErrMsg: "Requested file not found."},
	405: {Reason: "Method Not Allowed", ErrMsg: "Request contained unknown method."},
	408: {Reason: "Request Time-out", ErrMsg: "No enough data received in a reasonable timeframe."},
	414: {Reason: "URI Too Long", ErrMsg: "The requested URI is too long for this server to handle."},
	500: {Reason: "Internal Server Error", ErrMsg: "Unknown server error."},
	501: {Reason: "Not Implemented", ErrMsg: "Sorry, the server doesn't know how to handle the request."},
	505: {Reason: "HTTP Version Not Supported", ErrMsg: "This server only speaks HTTP/1.1."},
}

// LookupStatus returns the entry for code, or the 501 entry with ok=false
// if code is not in the table (spec.md §3: "Lookup of an unknown code
// resolves to 501").
func LookupStatus(code int) (entry StatusEntry, ok bool) {
	entry, ok = statusTable[code]
	if !ok {
		return statusTable[501], false
	}
	return entry, true
}
