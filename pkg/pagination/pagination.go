package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is used when no limit parameter is supplied.
	DefaultLimit = 10
	// MaxLimit caps the number of rows a single request may fetch.
	MaxLimit = 100
)

// Params carries offset-based pagination parsed from query parameters.
type Params struct {
	Skip  int
	Limit int
}

// FromRequest parses skip and limit query parameters, applying defaults
// and clamping out-of-range values.
func FromRequest(r *http.Request) Params {
	p := Params{Skip: 0, Limit: DefaultLimit}

	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Skip = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the SQL OFFSET for the params.
func (p Params) Offset() int {
	return p.Skip
}
