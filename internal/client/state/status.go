package state

import "errors"

// Status is the transient UI state of one entry. Entries without a recorded
// status are Viewing.
type Status int

const (
	Viewing Status = iota
	Editing
	Saving
	Deleting
)

func (s Status) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// InFlight reports whether a network call is pending for the entry.
func (s Status) InFlight() bool {
	return s == Saving || s == Deleting
}

var (
	ErrBusy           = errors.New("operation already in progress")
	ErrNothingPending = errors.New("no delete pending")
	ErrUnknownField   = errors.New("unknown field")
)

// User-facing notification texts.
const (
	msgLoadFailed   = "Failed to load logs: "
	msgRequired     = "Owner and log text are required"
	msgCreated      = "Log created successfully!"
	msgUpdated      = "Log updated successfully!"
	msgSaveFailed   = "Failed to save log: "
	msgDeleted      = "Log deleted successfully!"
	msgDeleteFailed = "Failed to delete log: "
)
