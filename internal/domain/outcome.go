package domain

import "time"

// Outcome is the result of dispatching a single Request.
type Outcome struct {
	Request Request

	// RequestID is sent as X-Request-Id and used to correlate log lines.
	RequestID string

	// StatusCode is zero when no response was received.
	StatusCode int

	// Body holds the raw response bytes as received.
	Body []byte

	Elapsed time.Duration

	// Err is nil on a 2xx response.
	Err error
}

// OK reports whether the request completed with a 2xx status.
func (o Outcome) OK() bool {
	return o.Err == nil && o.StatusCode/100 == 2
}
