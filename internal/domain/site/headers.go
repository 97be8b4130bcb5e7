package site

import (
	"net/http"
	"sort"
	"strings"
)

// Headers is a case-insensitive view of HTTP response headers.
// Names are folded to lower case on insert so lookups are a single map access.
type Headers struct {
	values map[string][]string
}

// NewHeaders copies an http.Header into a folded Headers value.
func NewHeaders(h http.Header) Headers {
	headers := Headers{}
	for name, vals := range h {
		for _, v := range vals {
			headers.Add(name, v)
		}
	}
	return headers
}

// Add appends a value for name.
func (h *Headers) Add(name, value string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	key := foldName(name)
	h.values[key] = append(h.values[key], value)
}

// Get returns the first value stored for name.
func (h Headers) Get(name string) (string, bool) {
	vals, ok := h.values[foldName(name)]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Len returns the number of distinct header names.
func (h Headers) Len() int {
	return len(h.values)
}

// Names returns the folded header names in sorted order.
func (h Headers) Names() []string {
	names := make([]string, 0, len(h.values))
	for name := range h.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flatten returns one entry per folded name. Repeated headers are joined with ", ".
func (h Headers) Flatten() map[string]string {
	out := make(map[string]string, len(h.values))
	for name, vals := range h.values {
		out[name] = strings.Join(vals, ", ")
	}
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
