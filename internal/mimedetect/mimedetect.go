// Package mimedetect adapts github.com/gabriel-vasile/mimetype to the
// httpmsg.MimeDetector contract so the file server and response assembler
// never need to import the detection library directly.
package mimedetect

import "github.com/gabriel-vasile/mimetype"

// Detect sniffs the media type of body. It always succeeds: mimetype falls
// back to "application/octet-stream" for unrecognized content, so the bool
// result only ever reports that a detection ran, matching the
// httpmsg.MimeDetector signature the response assembler expects.
func Detect(body []byte) (string, bool) {
	mt := mimetype.Detect(body)
	return mt.String(), true
}
