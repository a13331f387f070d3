// Package httpmsg defines the request/response data model: headers with
// case-insensitive lookup but preserved order and duplicates, the request
// and response value types, and the fixed status table.
package httpmsg

import "strings"

// Header is a single name/value pair as it appeared on the wire. Names are
// compared case-insensitively elsewhere in this package; Value keeps its
// original case and whitespace.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered, duplicate-allowed sequence of Header values. It is
// deliberately a slice and not a map so that insertion order and repeated
// names survive a round trip.
type Headers []Header

// Add appends a header, allowing duplicates.
func (h *Headers) Add(name, value string) {
	*h = append(*h, Header{Name: name, Value: value})
}

// Get returns the value of the first header matching name
// case-insensitively, and whether it was found.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

// Has reports whether a header with the given name exists.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Count returns how many headers match name case-insensitively.
func (h Headers) Count(name string) int {
	n := 0
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			n++
		}
	}
	return n
}

// Remove deletes every header matching name case-insensitively, returning
// how many were removed.
func (h *Headers) Remove(name string) int {
	out := make(Headers, 0, len(*h))
	removed := 0
	for _, header := range *h {
		if strings.EqualFold(header.Name, name) {
			removed++
			continue
		}
		out = append(out, header)
	}
	*h = out
	return removed
}
