// Package contracts holds the request shapes dashboard code hands to the HTTP client.
package contracts

import "strings"

// Method names the HTTP verb of a request.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Methods lists every supported verb.
func Methods() []Method {
	return []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions}
}

// ParseMethod maps a verb name (any case) onto the closed Method set.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

func (m Method) String() string { return string(m) }

// Request describes one call. TBody is whatever the caller sends; a nil Body is sent as-is.
// Params is optional: nil means no query parameters at all.
type Request[TBody any] struct {
	Endpoint string
	Method   Method
	Body     TBody
	Headers  map[string]string
	Params   map[string]any
}
