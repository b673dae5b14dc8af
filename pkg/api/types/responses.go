// Package types holds the JSON bodies shared by the REST front end and the
// HTTP helpers.
package types

import "time"

// ErrorResponse is the error body returned by every REST endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    int64     `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}
