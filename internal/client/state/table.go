// Package state holds the client-side collection of log entries and
// reconciles local drafts and edits with the server.
//
// Every entry has a Status (Viewing, Editing, Saving, Deleting) kept in a
// single map, so an entry can never be saving and deleting at once. Network
// calls run without holding the table lock: operations on different entries
// proceed concurrently, while a second save or delete of an entry that is
// already in flight fails with ErrBusy.
//
// Operations that reach the server also report their outcome through a
// notify.Notifier, in addition to returning an error.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/api"
	"github.com/dmitrijs2005/logkeeper/internal/client/client"
	"github.com/dmitrijs2005/logkeeper/internal/client/models"
	"github.com/dmitrijs2005/logkeeper/internal/client/notify"
	"github.com/dmitrijs2005/logkeeper/internal/client/pagination"
	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/logging"
)

type Table struct {
	mu sync.Mutex

	client   client.Client
	notifier notify.Notifier
	logger   logging.Logger
	now      func() time.Time

	entries       []models.Entry
	status        map[models.ID]Status
	pendingDelete *models.ID
	pager         *pagination.Pager
}

func NewTable(c client.Client, n notify.Notifier, pageSize int, l logging.Logger) *Table {
	return &Table{
		client:   c,
		notifier: n,
		logger:   l.With("module", "table"),
		now:      time.Now,
		status:   make(map[models.ID]Status),
		pager:    pagination.NewPager(pageSize),
	}
}

// Load replaces the collection with the server's list. On failure the
// collection is left as it was.
func (t *Table) Load(ctx context.Context) error {
	env := t.client.List(ctx)
	if err := env.Err(); err != nil {
		t.logger.Warn(ctx, "load failed", "error", err)
		t.notifier.Error(msgLoadFailed + env.Error)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]models.Entry, 0, len(env.Data))
	present := make(map[models.ID]struct{}, len(env.Data))
	for _, r := range env.Data {
		e := models.FromRecord(r)
		entries = append(entries, e)
		present[e.ID] = struct{}{}
	}
	t.entries = entries

	for id, st := range t.status {
		if _, ok := present[id]; !ok && !st.InFlight() {
			delete(t.status, id)
		}
	}
	if t.pendingDelete != nil {
		if _, ok := present[*t.pendingDelete]; !ok {
			t.pendingDelete = nil
		}
	}

	t.pager.Observe(len(t.entries))
	t.logger.Debug(ctx, "loaded", "count", len(t.entries))
	return nil
}

// AddDraft puts an empty draft at the front of the collection in editing
// mode and returns its id.
func (t *Table) AddDraft() models.ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := models.NewDraft(t.now())
	t.entries = append([]models.Entry{d}, t.entries...)
	t.status[d.ID] = Editing

	t.pager.Observe(len(t.entries))
	t.pager.Reset()
	return d.ID
}

func (t *Table) BeginEdit(id models.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(id) < 0 {
		return fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	st := t.status[id]
	if st.InFlight() {
		return ErrBusy
	}
	t.status[id] = Editing
	return nil
}

// CancelEdit leaves editing mode for id and reloads the whole collection,
// which also drops unsaved edits of every other entry.
func (t *Table) CancelEdit(ctx context.Context, id models.ID) error {
	t.mu.Lock()
	if t.status[id].InFlight() {
		t.mu.Unlock()
		return ErrBusy
	}
	delete(t.status, id)
	t.mu.Unlock()

	return t.Load(ctx)
}

// UpdateField changes one field locally. Nothing is validated or sent.
// Entries with a save or delete in flight are read-only.
func (t *Table) UpdateField(id models.ID, field models.Field, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	if t.status[id].InFlight() {
		return ErrBusy
	}
	if !t.entries[i].Set(field, value) {
		return fmt.Errorf("%w: %d", ErrUnknownField, field)
	}
	return nil
}

// Save sends the entry to the server: drafts are created, persisted entries
// updated. On success the entry is replaced in place by the server record
// and leaves editing mode; on failure it stays as it is, in editing mode.
func (t *Table) Save(ctx context.Context, id models.ID) error {
	t.mu.Lock()
	i := t.indexOf(id)
	if i < 0 {
		t.mu.Unlock()
		err := fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
		t.notifier.Error(msgSaveFailed + "log not found")
		return err
	}
	if t.status[id].InFlight() {
		t.mu.Unlock()
		return ErrBusy
	}

	e := t.entries[i]
	if !e.Complete() {
		t.mu.Unlock()
		t.notifier.Error(msgRequired)
		return fmt.Errorf("%w: owner and log text are required", common.ErrorValidation)
	}
	t.status[id] = Saving
	t.mu.Unlock()

	owner := strings.TrimSpace(e.Owner)
	logText := strings.TrimSpace(e.LogText)

	var env client.Envelope[api.Record]
	if id.IsDraft() {
		env = t.client.Create(ctx, owner, logText)
	} else {
		env = t.client.Update(ctx, id.Value(), owner, logText)
	}

	err := env.Err()
	if err == nil && env.Data.ID == "" {
		env.Error = "server returned a log without id"
		err = fmt.Errorf("%w: %s", client.ErrServer, env.Error)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		if t.indexOf(id) >= 0 {
			t.status[id] = Editing
		} else {
			delete(t.status, id)
		}
		t.logger.Warn(ctx, "save failed", "id", id.String(), "error", err)
		t.notifier.Error(msgSaveFailed + env.Error)
		return err
	}

	saved := models.FromRecord(env.Data)
	delete(t.status, id)
	if j := t.indexOf(id); j >= 0 {
		t.entries[j] = saved
	}
	if t.pendingDelete != nil && *t.pendingDelete == id {
		t.pendingDelete = &saved.ID
	}

	if id.IsDraft() {
		t.notifier.Success(msgCreated)
	} else {
		t.notifier.Success(msgUpdated)
	}
	return nil
}

// RequestDelete remembers id as the entry awaiting confirmation.
func (t *Table) RequestDelete(id models.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(id) < 0 {
		return fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	t.pendingDelete = &id
	return nil
}

func (t *Table) PendingDelete() (models.ID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pendingDelete == nil {
		return models.ID{}, false
	}
	return *t.pendingDelete, true
}

// DismissDelete forgets the pending delete without touching the entry.
func (t *Table) DismissDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDelete = nil
}

// ConfirmDelete deletes the pending entry. Drafts are dropped locally;
// persisted entries are removed only once the server confirms, or when the
// server no longer knows them.
func (t *Table) ConfirmDelete(ctx context.Context) error {
	t.mu.Lock()
	if t.pendingDelete == nil {
		t.mu.Unlock()
		return ErrNothingPending
	}
	id := *t.pendingDelete
	t.pendingDelete = nil

	if t.indexOf(id) < 0 {
		t.mu.Unlock()
		t.notifier.Error(msgDeleteFailed + "log not found")
		return fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	prev := t.status[id]
	if prev.InFlight() {
		t.mu.Unlock()
		return ErrBusy
	}

	if id.IsDraft() {
		t.remove(id)
		t.mu.Unlock()
		t.notifier.Success(msgDeleted)
		return nil
	}

	t.status[id] = Deleting
	t.mu.Unlock()

	env := t.client.Delete(ctx, id.Value())
	err := env.Err()

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case err == nil:
		t.remove(id)
		t.notifier.Success(msgDeleted)
		return nil
	case errors.Is(err, common.ErrorNotFound):
		// already gone on the server
		t.remove(id)
	default:
		t.restore(id, prev)
	}

	t.logger.Warn(ctx, "delete failed", "id", id.String(), "error", err)
	t.notifier.Error(msgDeleteFailed + env.Error)
	return err
}

// Entries returns a copy of the collection in display order.
func (t *Table) Entries() []models.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Table) Status(id models.ID) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[id]
}

// IsEditing is true while the entry is edited or being saved.
func (t *Table) IsEditing(id models.ID) bool {
	st := t.Status(id)
	return st == Editing || st == Saving
}

func (t *Table) IsSaving(id models.ID) bool { return t.Status(id) == Saving }

func (t *Table) IsDeleting(id models.ID) bool { return t.Status(id) == Deleting }

// Page returns the current page view and the entries on it.
func (t *Table) Page() (pagination.View, []models.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := t.pager.View()
	window := pagination.Window(t.entries, v)
	out := make([]models.Entry, len(window))
	copy(out, window)
	return v, out
}

func (t *Table) GoToPage(n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pager.GoTo(n)
}

func (t *Table) NextPage() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pager.Next()
}

func (t *Table) PrevPage() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pager.Prev()
}

func (t *Table) indexOf(id models.ID) int {
	for i := range t.entries {
		if t.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// remove drops id with its status. Caller holds mu.
func (t *Table) remove(id models.ID) {
	delete(t.status, id)
	if i := t.indexOf(id); i >= 0 {
		t.entries = append(t.entries[:i], t.entries[i+1:]...)
		t.pager.Observe(len(t.entries))
	}
}

// restore puts back the status an entry had before a failed delete.
// Entries dropped by a Load in the meantime lose their status.
func (t *Table) restore(id models.ID, prev Status) {
	if prev == Viewing || t.indexOf(id) < 0 {
		delete(t.status, id)
		return
	}
	t.status[id] = prev
}
