package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/api"
)

// Field names an editable column of an entry.
type Field int

const (
	FieldOwner Field = iota + 1
	FieldLogText
)

func (f Field) String() string {
	switch f {
	case FieldOwner:
		return "owner"
	case FieldLogText:
		return "logText"
	default:
		return "unknown"
	}
}

// Entry is a row of the client collection, either a draft or a copy of a
// server record. Drafts may hold empty fields.
type Entry struct {
	ID        ID
	Owner     string
	LogText   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDraft returns an empty draft stamped with now.
func NewDraft(now time.Time) Entry {
	return Entry{ID: NewDraftID(), CreatedAt: now, UpdatedAt: now}
}

// FromRecord converts a wire record into a persisted entry.
func FromRecord(r api.Record) Entry {
	return Entry{
		ID:        PersistedID(r.ID),
		Owner:     r.Owner,
		LogText:   r.LogText,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Set replaces one field. It reports false for an unknown field.
func (e *Entry) Set(f Field, value string) bool {
	switch f {
	case FieldOwner:
		e.Owner = value
	case FieldLogText:
		e.LogText = value
	default:
		return false
	}
	return true
}

// Complete reports whether both fields are non-empty after trimming.
func (e Entry) Complete() bool {
	return strings.TrimSpace(e.Owner) != "" && strings.TrimSpace(e.LogText) != ""
}
