package mimedetect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHTML(t *testing.T) {
	ct, ok := Detect([]byte("<!DOCTYPE html><html><body>hi</body></html>"))
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(ct, "text/html"))
}

func TestDetectPNG(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	ct, ok := Detect(png)
	assert.True(t, ok)
	assert.Equal(t, "image/png", ct)
}

func TestDetectUnknownFallsBackToOctetStream(t *testing.T) {
	ct, ok := Detect([]byte{0x00, 0x01, 0x02, 0x03})
	assert.True(t, ok)
	assert.Equal(t, "application/octet-stream", ct)
}
