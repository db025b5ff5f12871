// Package common defines shared constants and sentinel errors used across
// client and server layers of LogKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors (missing or blank required fields).
	ErrorValidation = errors.New("validation error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrExportDisabled = errors.New("export disabled")
)
