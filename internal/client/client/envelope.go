package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/common"
)

// Envelope is the decoded response of a call. Status is the HTTP status
// code, zero when no response was received.
type Envelope[T any] struct {
	Success   bool       `json:"success"`
	Data      T          `json:"data"`
	Error     string     `json:"error,omitempty"`
	Message   string     `json:"message,omitempty"`
	Count     *int       `json:"count,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Status    int        `json:"-"`

	transport bool
	// foreign marks an error response whose body was not an API envelope.
	foreign bool
}

func transportFailure[T any](status int, msg string) Envelope[T] {
	return Envelope[T]{Success: false, Error: msg, Status: status, transport: true}
}

// Err returns nil for a successful envelope and a sentinel-wrapped error
// otherwise. The envelope message is kept in the error text.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}

	msg := e.Error
	if msg == "" {
		msg = "request failed"
	}

	switch {
	case e.transport:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	case e.foreign:
		return fmt.Errorf("%w: %s", ErrServer, msg)
	case e.Status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	case e.Status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	default:
		return fmt.Errorf("%w: %s", ErrServer, msg)
	}
}
