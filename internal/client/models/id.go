// Package models defines the client-side view of log records: identities
// that tell drafts from persisted records, and the entries the table holds.
package models

import "github.com/google/uuid"

// Kind tells a locally created draft from a record the server knows about.
type Kind uint8

const (
	KindDraft Kind = iota + 1
	KindPersisted
)

// ID identifies an entry in the client collection. The zero value is not a
// valid id. IDs are comparable and can be used as map keys.
type ID struct {
	kind  Kind
	value string
}

// NewDraftID returns a fresh local id.
func NewDraftID() ID {
	return DraftID(uuid.NewString())
}

func DraftID(local string) ID {
	return ID{kind: KindDraft, value: local}
}

func PersistedID(server string) ID {
	return ID{kind: KindPersisted, value: server}
}

func (id ID) Kind() Kind { return id.kind }

func (id ID) IsDraft() bool { return id.kind == KindDraft }

func (id ID) IsZero() bool { return id.kind == 0 }

// Value is the raw id: the local UUID for drafts, the server id otherwise.
func (id ID) Value() string { return id.value }

func (id ID) String() string {
	switch id.kind {
	case KindDraft:
		return "draft:" + id.value
	case KindPersisted:
		return id.value
	default:
		return "<none>"
	}
}
