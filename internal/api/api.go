// Package api holds the JSON wire contract shared by the REST server and the
// client proxy.
//
// Every response, successful or not, is an envelope:
//
//	{"success": true, "data": ..., "message": "...", "count": 1}
//	{"success": false, "error": "Log not found"}
package api

import "time"

// Record is a persisted log as it travels over the wire. Timestamps are
// encoded as RFC 3339 strings.
type Record struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	LogText   string    `json:"logText"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogRequest is the body of POST /logs and PUT /logs/:id.
type LogRequest struct {
	Owner   string `json:"owner"`
	LogText string `json:"logText"`
}

// Export describes a snapshot uploaded by POST /exports.
type Export struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Response is the envelope written by the server. Pointer fields are
// omitted when nil so that, for example, "count": 0 is still sent for an
// empty list.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     string     `json:"error,omitempty"`
	Message   string     `json:"message,omitempty"`
	Count     *int       `json:"count,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
