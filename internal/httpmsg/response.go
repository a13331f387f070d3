package httpmsg

import (
	"bytes"
	"fmt"
	"time"
)

// MimeDetector is the external collaborator named in spec.md §6:
// detect_mime(bytes) -> (media_type_string, ok). Response never imports a
// concrete sniffing library itself; callers supply one (internal/mimedetect).
type MimeDetector func(body []byte) (string, bool)

// Response is a response under construction. Construct with New, add
// headers and a body, then call Serialize once every field is set.
type Response struct {
	Status      int
	Headers     Headers
	Body        []byte
	HasBody     bool
	KeepAlive   bool
	HeadElision bool
	Method      Method
}

// New constructs an empty response with the given status.
func New(status int) *Response {
	return &Response{Status: status}
}

// AddHeader appends a header, duplicates allowed.
func (r *Response) AddHeader(name, value string) {
	r.Headers.Add(name, value)
}

// SetContent copies body into the response. If detect is non-nil, any
// existing Content-Type header is removed and replaced with the detected
// media type (spec.md §4.D set_content's auto-content-type flag).
func (r *Response) SetContent(body []byte, detect MimeDetector) {
	r.Body = append([]byte(nil), body...)
	r.HasBody = true
	if detect == nil {
		return
	}
	r.Headers.Remove("Content-Type")
	if mediaType, ok := detect(r.Body); ok {
		r.AddHeader("Content-Type", mediaType)
	}
}

// errorPage renders the canned HTML body for a non-200 status, per the
// Status Table entry and spec.md §4.D serialize() step 1's placeholder set
// (code, reason, message, server ident, listen port).
func errorPage(code int, reason, errMsg, serverIdent string, listenPort int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<html><head>\n<title>%d %s</title>\n</head><body>\n", code, reason)
	fmt.Fprintf(&buf, "<h1>%s</h1>\n<p>%s<br />\n</p>\n<hr>\n", reason, errMsg)
	fmt.Fprintf(&buf, "<address>%s on port %d</address>\r\n</body></html>\n", serverIdent, listenPort)
	return buf.Bytes()
}

// Serialize emits the status line, headers, blank line, and body as the
// exact byte stream to write to the socket, per spec.md §4.D serialize().
func (r *Response) Serialize(serverIdent string, listenPort int, now time.Time, detect MimeDetector) ([]byte, error) {
	entry, ok := LookupStatus(r.Status)
	code := r.Status
	if !ok {
		code = 501
	}
	reason := entry.Reason

	if code != 200 && !r.HasBody {
		r.SetContent(errorPage(code, reason, entry.ErrMsg, serverIdent, listenPort), nil)
	}

	// Content-Length always reflects the body length even under
	// HeadElision, which only omits the bytes written below.
	contentLength := len(r.Body)

	r.Headers.Remove("Content-Length")
	r.AddHeader("Content-Length", fmt.Sprintf("%d", contentLength))

	r.Headers.Remove("Server")
	r.AddHeader("Server", serverIdent)

	r.Headers.Remove("Date")
	r.AddHeader("Date", now.UTC().Format(time.RFC1123))

	r.Headers.Remove("Connection")
	if r.KeepAlive {
		r.AddHeader("Connection", "keep-alive")
	} else {
		r.AddHeader("Connection", "close")
	}

	if !r.Headers.Has("Content-Type") {
		if detect != nil {
			if mediaType, ok := detect(r.Body); ok {
				r.AddHeader("Content-Type", mediaType)
			}
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", code, reason)
	for _, h := range r.Headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Name, h.Value)
	}
	buf.WriteString("\r\n")
	if !r.HeadElision && r.HasBody {
		buf.Write(r.Body)
	}
	return buf.Bytes(), nil
}
