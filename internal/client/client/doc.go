// Package client talks to the LogKeeper REST API.
//
// # Overview
//
// Client is the transport contract used by the reconciliation table. The
// HTTP implementation (HTTPClient) never returns a Go error: every call
// resolves to an Envelope carrying either the decoded data or a
// human-readable failure. Envelope.Err maps a failed envelope to a sentinel
// so callers can branch with errors.Is.
//
// # Error Handling
//
//	400              -> common.ErrorValidation
//	404              -> common.ErrorNotFound
//	no response,
//	malformed body   -> ErrUnavailable
//	anything else    -> ErrServer
//
// All operations accept context.Context; each request additionally runs
// under the client's own timeout.
package client
