package httpparse

import (
	"strings"
	"testing"

	"github.com/Z1ni/zhttpd/internal/httpmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleGet(t *testing.T) {
	res := Parse([]byte("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	require.Nil(t, res.Err)
	require.False(t, res.NeedMore)
	require.NotNil(t, res.Request)
	assert.Equal(t, httpmsg.MethodGet, res.Request.Method)
	assert.Equal(t, "/index.html", res.Request.Path)
	assert.Equal(t, len("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"), res.Consumed)
}

func TestParseNeedsMoreDataUntilBlankLine(t *testing.T) {
	res := Parse([]byte("GET / HTTP/1.1\r\nHost: x\r\n"))
	assert.True(t, res.NeedMore)
}

func TestParseByteByByteMatchesOneShot(t *testing.T) {
	full := []byte("GET /a HTTP/1.1\r\nHost: x\r\nConnection: keep-alive\r\n\r\n")

	var oneShot Result
	oneShot = Parse(full)
	require.Nil(t, oneShot.Err)
	require.False(t, oneShot.NeedMore)

	var buf []byte
	var fragmented Result
	for i := range full {
		buf = append(buf, full[i])
		fragmented = Parse(buf)
		if !fragmented.NeedMore {
			break
		}
	}
	require.Nil(t, fragmented.Err)
	require.False(t, fragmented.NeedMore)
	assert.Equal(t, oneShot.Request.Method, fragmented.Request.Method)
	assert.Equal(t, oneShot.Request.Path, fragmented.Request.Path)
	assert.Equal(t, oneShot.Request.KeepAlive, fragmented.Request.KeepAlive)
	assert.Equal(t, oneShot.Consumed, fragmented.Consumed)
}

func TestParseBareLFMatchesCRLF(t *testing.T) {
	crlf := Parse([]byte("GET /a HTTP/1.1\r\nHost: x\r\n\r\n"))
	lf := Parse([]byte("GET /a HTTP/1.1\nHost: x\n\n"))
	require.Nil(t, crlf.Err)
	require.Nil(t, lf.Err)
	assert.Equal(t, crlf.Request.Method, lf.Request.Method)
	assert.Equal(t, crlf.Request.Path, lf.Request.Path)
}

func TestParseFoldedHeaderIsMalformed(t *testing.T) {
	res := Parse([]byte("GET /a HTTP/1.1\r\nHost: x\r\n Folded: value\r\n\r\n"))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrMalformedRequest, res.Err.Kind)
}

func TestParseMissingHost(t *testing.T) {
	res := Parse([]byte("GET /a HTTP/1.1\r\nX-Foo: bar\r\n\r\n"))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrMissingHost, res.Err.Kind)
}

func TestParseInvalidMethod(t *testing.T) {
	res := Parse([]byte("FOO /a HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrInvalidMethod, res.Err.Kind)
}

func TestParseUnsupportedProtocol(t *testing.T) {
	res := Parse([]byte("GET /a HTTP/1.0\r\nHost: x\r\n\r\n"))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrUnsupportedProtocol, res.Err.Kind)
}

func TestParseURITooLongBoundary(t *testing.T) {
	exact := "/" + strings.Repeat("a", httpmsg.MaxPathLength-1)
	tooLong := "/" + strings.Repeat("a", httpmsg.MaxPathLength)

	res := Parse([]byte("GET " + exact + " HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.Nil(t, res.Err)
	assert.Len(t, res.Request.Path, httpmsg.MaxPathLength)

	res = Parse([]byte("GET " + tooLong + " HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrURITooLong, res.Err.Kind)
}

func TestParseQueryString(t *testing.T) {
	res := Parse([]byte("GET /search?q=a+b HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.Nil(t, res.Err)
	assert.Equal(t, "/search", res.Request.Path)
	assert.True(t, res.Request.HasQuery)
	assert.Equal(t, "q=a b", res.Request.Query)
}

func TestParsePostFormUrlencoded(t *testing.T) {
	body := "a=1&b=2"
	raw := "POST /form.php HTTP/1.1\r\nHost: x\r\nContent-Type: application/x-www-form-urlencoded\r\nContent-Length: " +
		itoa(len(body)) + "\r\n\r\n" + body
	res := Parse([]byte(raw))
	require.Nil(t, res.Err)
	require.True(t, res.Request.HasPayload)
	assert.Equal(t, body, string(res.Request.Payload))
	assert.Equal(t, len(raw), res.Consumed)
}

func TestParsePostUnsupportedFormEncoding(t *testing.T) {
	body := `{"a":1}`
	raw := "POST /api HTTP/1.1\r\nHost: x\r\nContent-Type: application/json\r\nContent-Length: " +
		itoa(len(body)) + "\r\n\r\n" + body
	res := Parse([]byte(raw))
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrUnsupportedFormEncoding, res.Err.Kind)
	require.NotNil(t, res.Request)
	assert.Equal(t, httpmsg.MethodPost, res.Request.Method)
}

func TestParsePostWaitsForFullPayload(t *testing.T) {
	raw := "POST /form.php HTTP/1.1\r\nHost: x\r\nContent-Type: application/x-www-form-urlencoded\r\nContent-Length: 7\r\n\r\na=1"
	res := Parse([]byte(raw))
	assert.True(t, res.NeedMore)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
