package state

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/api"
	"github.com/dmitrijs2005/logkeeper/internal/client/client"
	"github.com/dmitrijs2005/logkeeper/internal/client/models"
	"github.com/dmitrijs2005/logkeeper/internal/client/notify"
	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, srv *fakeServer) (*Table, *notify.Recorder) {
	t.Helper()
	tbl, rec := newTestTable(srv)
	require.NoError(t, tbl.Load(context.Background()))
	rec.Reset()
	return tbl, rec
}

func manyRecords(n int) []api.Record {
	out := make([]api.Record, n)
	for i := range out {
		out[i] = seedRecord(fmt.Sprintf("r%d", i), fmt.Sprintf("owner %d", i), "text")
	}
	return out
}

func TestLoad_ReplacesCollection(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, rec := newTestTable(srv)

	require.NoError(t, tbl.Load(context.Background()))

	entries := tbl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, models.PersistedID("a"), entries[0].ID)
	assert.Equal(t, models.PersistedID("b"), entries[1].ID)
	assert.Empty(t, rec.All())
}

func TestLoad_FailureKeepsCollection(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, rec := loaded(t, srv)
	draft := tbl.AddDraft()

	srv.listFail = "connection refused"
	err := tbl.Load(context.Background())
	require.ErrorIs(t, err, client.ErrServer)

	entries := tbl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, draft, entries[0].ID)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Failed to load logs: connection refused"}, last)
}

func TestLoad_DropsStatusOfVanishedEntries(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, _ := loaded(t, srv)

	require.NoError(t, tbl.BeginEdit(models.PersistedID("a")))
	require.NoError(t, tbl.BeginEdit(models.PersistedID("b")))
	require.NoError(t, tbl.RequestDelete(models.PersistedID("b")))
	draft := tbl.AddDraft()

	srv.records = srv.records[:1]
	require.NoError(t, tbl.Load(context.Background()))

	assert.Equal(t, Editing, tbl.Status(models.PersistedID("a")))
	assert.Equal(t, Viewing, tbl.Status(models.PersistedID("b")))
	assert.Equal(t, Viewing, tbl.Status(draft))
	_, pending := tbl.PendingDelete()
	assert.False(t, pending)
}

func TestAddDraft_InsertsAtFrontInEditing(t *testing.T) {
	srv := newFakeServer(manyRecords(15)...)
	tbl, _ := loaded(t, srv)
	require.True(t, tbl.GoToPage(2))

	id := tbl.AddDraft()

	assert.True(t, id.IsDraft())
	entries := tbl.Entries()
	require.Len(t, entries, 16)
	assert.Equal(t, id, entries[0].ID)
	assert.Empty(t, entries[0].Owner)
	assert.Empty(t, entries[0].LogText)
	assert.Equal(t, entries[0].CreatedAt, entries[0].UpdatedAt)
	assert.Equal(t, Editing, tbl.Status(id))
	assert.True(t, tbl.IsEditing(id))

	v, page := tbl.Page()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, id, page[0].ID)
	assert.Equal(t, 0, srv.total())
}

func TestUpdateField(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, _ := loaded(t, srv)
	id := models.PersistedID("a")

	require.NoError(t, tbl.UpdateField(id, models.FieldOwner, ""))
	require.NoError(t, tbl.UpdateField(id, models.FieldLogText, "changed"))

	e := tbl.Entries()[0]
	assert.Empty(t, e.Owner)
	assert.Equal(t, "changed", e.LogText)
	assert.Equal(t, 0, srv.total())

	require.ErrorIs(t, tbl.UpdateField(models.PersistedID("zz"), models.FieldOwner, "x"), common.ErrorNotFound)
	require.ErrorIs(t, tbl.UpdateField(id, models.Field(42), "x"), ErrUnknownField)
}

func TestSaveDraft_KeepsPosition(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, rec := loaded(t, srv)
	ctx := context.Background()

	first := tbl.AddDraft()
	second := tbl.AddDraft()

	// save the draft that now sits at index 1
	require.NoError(t, tbl.UpdateField(first, models.FieldOwner, " Cid "))
	require.NoError(t, tbl.UpdateField(first, models.FieldLogText, " three "))
	require.NoError(t, tbl.Save(ctx, first))

	entries := tbl.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, second, entries[0].ID)
	assert.False(t, entries[1].ID.IsDraft())
	assert.Equal(t, "srv-1", entries[1].ID.Value())
	assert.Equal(t, "Cid", entries[1].Owner)
	assert.Equal(t, "three", entries[1].LogText)
	assert.Equal(t, models.PersistedID("a"), entries[2].ID)

	assert.Equal(t, Viewing, tbl.Status(first))
	assert.Equal(t, Viewing, tbl.Status(entries[1].ID))
	assert.Equal(t, Editing, tbl.Status(second))

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: "Log created successfully!"}, last)
}

func TestSave_ValidationNeverCallsNetwork(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, rec := loaded(t, srv)
	ctx := context.Background()

	draft := tbl.AddDraft()
	require.NoError(t, tbl.UpdateField(draft, models.FieldOwner, "Ann"))
	require.NoError(t, tbl.UpdateField(draft, models.FieldLogText, "   "))
	before := tbl.Entries()

	err := tbl.Save(ctx, draft)
	require.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, tbl.UpdateField(models.PersistedID("a"), models.FieldOwner, ""))
	before2 := tbl.Entries()
	err = tbl.Save(ctx, models.PersistedID("a"))
	require.ErrorIs(t, err, common.ErrorValidation)

	assert.Equal(t, 0, srv.total())
	assert.Equal(t, before2, tbl.Entries())
	assert.Equal(t, before[0], tbl.Entries()[0])
	assert.Equal(t, Editing, tbl.Status(draft))

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Owner and log text are required"}, last)
}

func TestSavePersisted_Success(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, rec := loaded(t, srv)
	id := models.PersistedID("b")

	require.NoError(t, tbl.BeginEdit(id))
	require.NoError(t, tbl.UpdateField(id, models.FieldLogText, "edited "))
	require.NoError(t, tbl.Save(context.Background(), id))

	entries := tbl.Entries()
	assert.Equal(t, id, entries[1].ID)
	assert.Equal(t, "edited", entries[1].LogText)
	assert.True(t, entries[1].UpdatedAt.After(entries[1].CreatedAt))
	assert.Equal(t, Viewing, tbl.Status(id))
	assert.Equal(t, 1, srv.count("Update"))

	last, _ := rec.Last()
	assert.Equal(t, "Log updated successfully!", last.Message)
}

func TestSave_FailureKeepsEditsAndEditing(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	srv.fail["Update"] = serverError("Failed to update log")
	tbl, rec := loaded(t, srv)
	id := models.PersistedID("a")

	require.NoError(t, tbl.BeginEdit(id))
	require.NoError(t, tbl.UpdateField(id, models.FieldOwner, "Zed"))

	err := tbl.Save(context.Background(), id)
	require.ErrorIs(t, err, client.ErrServer)

	assert.Equal(t, "Zed", tbl.Entries()[0].Owner)
	assert.Equal(t, Editing, tbl.Status(id))
	assert.False(t, tbl.IsSaving(id))

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Failed to save log: Failed to update log"}, last)
}

func TestSaveDraft_FailureLeavesDraft(t *testing.T) {
	srv := newFakeServer()
	srv.fail["Create"] = client.Envelope[api.Record]{Success: false, Error: "dial tcp: connection refused"}
	tbl, _ := loaded(t, srv)

	draft := tbl.AddDraft()
	require.NoError(t, tbl.UpdateField(draft, models.FieldOwner, "A"))
	require.NoError(t, tbl.UpdateField(draft, models.FieldLogText, "B"))

	require.Error(t, tbl.Save(context.Background(), draft))

	entries := tbl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, draft, entries[0].ID)
	assert.Equal(t, "A", entries[0].Owner)
	assert.Equal(t, Editing, tbl.Status(draft))
}

func TestSave_UnknownPersistedIDIsNotFound(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, _ := loaded(t, srv)
	id := models.PersistedID("a")

	// the record disappears on the server behind our back
	srv.records = nil
	before := tbl.Entries()

	err := tbl.Save(context.Background(), id)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, before, tbl.Entries())
}

func TestSave_EmptyServerIDIsAnError(t *testing.T) {
	srv := newFakeServer()
	srv.fail["Create"] = client.Envelope[api.Record]{Success: true, Status: http.StatusCreated}
	tbl, _ := loaded(t, srv)

	draft := tbl.AddDraft()
	require.NoError(t, tbl.UpdateField(draft, models.FieldOwner, "A"))
	require.NoError(t, tbl.UpdateField(draft, models.FieldLogText, "B"))

	err := tbl.Save(context.Background(), draft)
	require.ErrorIs(t, err, client.ErrServer)
	assert.Equal(t, draft, tbl.Entries()[0].ID)
}

func TestSave_MissingEntry(t *testing.T) {
	tbl, _ := loaded(t, newFakeServer())
	require.ErrorIs(t, tbl.Save(context.Background(), models.NewDraftID()), common.ErrorNotFound)
}

func TestConfirmDelete_DraftIsLocal(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, rec := loaded(t, srv)

	draft := tbl.AddDraft()
	require.NoError(t, tbl.RequestDelete(draft))
	require.NoError(t, tbl.ConfirmDelete(context.Background()))

	assert.Equal(t, 0, srv.total())
	for _, e := range tbl.Entries() {
		assert.NotEqual(t, draft, e.ID)
	}
	assert.Equal(t, Viewing, tbl.Status(draft))
	last, _ := rec.Last()
	assert.Equal(t, "Log deleted successfully!", last.Message)
}

func TestConfirmDelete_Persisted(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, _ := loaded(t, srv)

	require.NoError(t, tbl.RequestDelete(models.PersistedID("a")))
	id, ok := tbl.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, models.PersistedID("a"), id)

	require.NoError(t, tbl.ConfirmDelete(context.Background()))

	entries := tbl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.PersistedID("b"), entries[0].ID)
	assert.Equal(t, 1, srv.count("Delete"))

	_, ok = tbl.PendingDelete()
	assert.False(t, ok)
}

func TestConfirmDelete_ServerFailureKeepsRecord(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	srv.fail["Delete"] = serverError("Failed to delete log")
	tbl, rec := loaded(t, srv)
	id := models.PersistedID("a")

	require.NoError(t, tbl.BeginEdit(id))
	require.NoError(t, tbl.RequestDelete(id))
	err := tbl.ConfirmDelete(context.Background())
	require.ErrorIs(t, err, client.ErrServer)

	require.Len(t, tbl.Entries(), 1)
	assert.False(t, tbl.IsDeleting(id))
	assert.Equal(t, Editing, tbl.Status(id))

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Failed to delete log: Failed to delete log"}, last)
}

func TestConfirmDelete_AlreadyGoneOnServer(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, rec := loaded(t, srv)
	srv.records = nil

	require.NoError(t, tbl.RequestDelete(models.PersistedID("a")))
	err := tbl.ConfirmDelete(context.Background())
	require.ErrorIs(t, err, common.ErrorNotFound)

	assert.Empty(t, tbl.Entries())
	last, _ := rec.Last()
	assert.Equal(t, notify.KindError, last.Kind)
}

func TestDeleteConfirmationGate(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, _ := loaded(t, srv)

	require.ErrorIs(t, tbl.ConfirmDelete(context.Background()), ErrNothingPending)

	require.NoError(t, tbl.RequestDelete(models.PersistedID("a")))
	tbl.DismissDelete()
	require.ErrorIs(t, tbl.ConfirmDelete(context.Background()), ErrNothingPending)

	assert.Len(t, tbl.Entries(), 1)
	assert.Equal(t, 0, srv.total())
	require.ErrorIs(t, tbl.RequestDelete(models.PersistedID("zz")), common.ErrorNotFound)
}

func TestCancelEdit_ReloadsEverything(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, _ := loaded(t, srv)
	a, b := models.PersistedID("a"), models.PersistedID("b")

	require.NoError(t, tbl.BeginEdit(a))
	require.NoError(t, tbl.BeginEdit(b))
	require.NoError(t, tbl.UpdateField(a, models.FieldOwner, "unsaved a"))
	require.NoError(t, tbl.UpdateField(b, models.FieldOwner, "unsaved b"))
	draft := tbl.AddDraft()

	require.NoError(t, tbl.CancelEdit(context.Background(), a))

	entries := tbl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Ann", entries[0].Owner)
	assert.Equal(t, "Bob", entries[1].Owner)
	assert.Equal(t, Viewing, tbl.Status(a))
	assert.Equal(t, Editing, tbl.Status(b))
	assert.Equal(t, Viewing, tbl.Status(draft))
}

func TestScenario_SeedDraftSave(t *testing.T) {
	srv := newFakeServer(seedRecord("seed", "John Doe", "Initial log entry for testing"))
	tbl, _ := loaded(t, srv)
	ctx := context.Background()

	draft := tbl.AddDraft()
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, draft, tbl.Entries()[0].ID)

	require.NoError(t, tbl.UpdateField(draft, models.FieldOwner, "A"))
	require.NoError(t, tbl.UpdateField(draft, models.FieldLogText, "B"))
	require.NoError(t, tbl.Save(ctx, draft))

	entries := tbl.Entries()
	require.Len(t, entries, 2)
	assert.False(t, entries[0].ID.IsDraft())
	assert.NotEmpty(t, entries[0].ID.Value())
	assert.Equal(t, "A", entries[0].Owner)
	assert.Equal(t, "B", entries[0].LogText)
}

func TestPaging_ResetsOnLengthChange(t *testing.T) {
	srv := newFakeServer(manyRecords(25)...)
	tbl, _ := loaded(t, srv)

	v, page := tbl.Page()
	assert.Equal(t, 3, v.TotalPages)
	assert.True(t, v.Visible)
	assert.Len(t, page, 10)

	assert.False(t, tbl.GoToPage(4))
	assert.False(t, tbl.GoToPage(0))
	assert.True(t, tbl.GoToPage(3))

	v, page = tbl.Page()
	assert.Equal(t, 3, v.Page)
	assert.Len(t, page, 5)

	require.NoError(t, tbl.RequestDelete(models.PersistedID("r24")))
	require.NoError(t, tbl.ConfirmDelete(context.Background()))

	v, _ = tbl.Page()
	assert.Equal(t, 1, v.Page)
	assert.True(t, tbl.NextPage())
	assert.True(t, tbl.PrevPage())
	assert.False(t, tbl.PrevPage())
}

func TestPaging_CurrentPageAlwaysInRange(t *testing.T) {
	srv := newFakeServer(manyRecords(12)...)
	tbl, _ := loaded(t, srv)
	ctx := context.Background()

	check := func() {
		v, page := tbl.Page()
		maxPage := v.TotalPages
		if maxPage < 1 {
			maxPage = 1
		}
		assert.GreaterOrEqual(t, v.Page, 1)
		assert.LessOrEqual(t, v.Page, maxPage)
		assert.LessOrEqual(t, len(page), 10)
		if v.TotalItems > 0 {
			assert.NotEmpty(t, page)
		}
		assert.Equal(t, v.TotalItems > 10, v.Visible)
	}

	tbl.GoToPage(2)
	check()
	for i := 0; i < 3; i++ {
		tbl.AddDraft()
		check()
		tbl.NextPage()
	}
	for _, e := range tbl.Entries() {
		require.NoError(t, tbl.RequestDelete(e.ID))
		tbl.NextPage()
		_ = tbl.ConfirmDelete(ctx)
		check()
	}
	assert.Equal(t, 0, tbl.Len())
}

func TestConcurrentSaves_DifferentIDsProceed(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"), seedRecord("b", "Bob", "two"))
	tbl, _ := loaded(t, srv)
	ctx := context.Background()

	srv.gate = make(chan struct{})
	srv.entered = make(chan string, 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = tbl.Save(ctx, models.PersistedID(id))
		}()
	}

	// both calls are in flight at the same time
	<-srv.entered
	<-srv.entered
	assert.True(t, tbl.IsSaving(models.PersistedID("a")))
	assert.True(t, tbl.IsSaving(models.PersistedID("b")))

	// the table stays usable while saves are pending
	draft := tbl.AddDraft()
	require.NoError(t, tbl.UpdateField(draft, models.FieldOwner, "x"))

	// same id is rejected while in flight
	require.ErrorIs(t, tbl.Save(ctx, models.PersistedID("a")), ErrBusy)
	require.NoError(t, tbl.RequestDelete(models.PersistedID("a")))
	require.ErrorIs(t, tbl.ConfirmDelete(ctx), ErrBusy)

	close(srv.gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, Viewing, tbl.Status(models.PersistedID("a")))
	assert.Equal(t, Viewing, tbl.Status(models.PersistedID("b")))
	assert.Equal(t, 2, srv.count("Update"))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "saving", Saving.String())
	assert.Equal(t, "deleting", Deleting.String())
	assert.Equal(t, "unknown", Status(9).String())
	assert.True(t, Saving.InFlight())
	assert.False(t, Editing.InFlight())
}

func TestUpdateField_RejectedWhileSaving(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	tbl, _ := loaded(t, srv)
	ctx := context.Background()
	id := models.PersistedID("a")

	srv.gate = make(chan struct{})
	srv.entered = make(chan string, 1)

	done := make(chan error, 1)
	go func() { done <- tbl.Save(ctx, id) }()
	<-srv.entered

	err := tbl.UpdateField(id, models.FieldLogText, "typed while saving")
	require.ErrorIs(t, err, ErrBusy)

	close(srv.gate)
	require.NoError(t, <-done)

	// nothing was accepted that the save could overwrite
	assert.Equal(t, "one", tbl.Entries()[0].LogText)
	require.NoError(t, tbl.UpdateField(id, models.FieldLogText, "after save"))
	assert.Equal(t, "after save", tbl.Entries()[0].LogText)
}

func TestConfirmDelete_FailureAfterReloadDropsStatus(t *testing.T) {
	srv := newFakeServer(seedRecord("a", "Ann", "one"))
	srv.fail["Delete"] = serverError("Failed to delete log")
	tbl, _ := loaded(t, srv)
	ctx := context.Background()
	id := models.PersistedID("a")

	require.NoError(t, tbl.BeginEdit(id))
	require.NoError(t, tbl.RequestDelete(id))

	srv.gate = make(chan struct{})
	srv.entered = make(chan string, 1)

	done := make(chan error, 1)
	go func() { done <- tbl.ConfirmDelete(ctx) }()
	<-srv.entered

	// another client removed the record; a reload drops the row
	srv.mu.Lock()
	srv.records = nil
	srv.mu.Unlock()
	require.NoError(t, tbl.Load(ctx))
	assert.Equal(t, Deleting, tbl.Status(id))

	close(srv.gate)
	require.ErrorIs(t, <-done, client.ErrServer)

	tbl.mu.Lock()
	_, kept := tbl.status[id]
	tbl.mu.Unlock()
	assert.False(t, kept)
	assert.Equal(t, 0, tbl.Len())
}

func TestConfirmDelete_NonAPINotFoundKeepsRecord(t *testing.T) {
	list := `{"success":true,"data":[{"id":"a","owner":"Ann","logText":"one",` +
		`"createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}],"count":1}`
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body>404 Not Found</body></html>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(list))
	}))
	t.Cleanup(hs.Close)

	rec := &notify.Recorder{}
	tbl := NewTable(client.NewHTTPClient(hs.URL, time.Second), rec, 10, logging.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))
	id := models.PersistedID("a")

	require.NoError(t, tbl.RequestDelete(id))
	err := tbl.ConfirmDelete(ctx)

	require.ErrorIs(t, err, client.ErrServer)
	assert.False(t, errors.Is(err, common.ErrorNotFound))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, Viewing, tbl.Status(id))

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Failed to delete log: HTTP error! status: 404"}, last)
}
