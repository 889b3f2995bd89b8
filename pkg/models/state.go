package models

import (
	"net/url"
	"time"
)

// QueryTrace records one database round-trip made on behalf of a request.
type QueryTrace struct {
	SQL      string
	Duration time.Duration
}

// RequestState is the mutable, request-scoped record threaded through every
// pipeline stage until the response is written. It is owned by a single
// request and must never be shared across requests.
type RequestState struct {
	Page string
	IP   string

	// User is nil for anonymous requests.
	User *User

	// Form holds the parsed POST fields with every value trimmed.
	Form url.Values

	Queries []QueryTrace

	// Presentation fields filled in by whichever handler runs.
	SiteName        string
	SiteDescription string
	Alert           string
	Post            *Post
	Posts           []Post
	Comments        []Comment
}

// Trace appends one query record; storage calls it through the per-request
// trace hook.
func (s *RequestState) Trace(sql string, d time.Duration) {
	s.Queries = append(s.Queries, QueryTrace{SQL: sql, Duration: d})
}

// FormValue returns the first trimmed value for key, or "".
func (s *RequestState) FormValue(key string) string {
	if s.Form == nil {
		return ""
	}
	return s.Form.Get(key)
}

// LoggedIn reports whether the request carries an authenticated user.
func (s *RequestState) LoggedIn() bool {
	return s.User != nil
}
