package state

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/api"
	"github.com/dmitrijs2005/logkeeper/internal/client/client"
	"github.com/dmitrijs2005/logkeeper/internal/client/notify"
	"github.com/dmitrijs2005/logkeeper/internal/logging"
)

// fakeServer is an in-memory stand-in for the REST API.
type fakeServer struct {
	mu      sync.Mutex
	records []api.Record
	seq     int
	calls   map[string]int

	// failures by operation name; the envelope is returned as-is
	fail map[string]client.Envelope[api.Record]
	// listFail makes List fail with the given message
	listFail string
	// gate, when set, blocks Create/Update/Delete until it is closed
	gate chan struct{}
	// entered receives one value per gated call once it is blocked
	entered chan string
}

func newFakeServer(records ...api.Record) *fakeServer {
	return &fakeServer{
		records: records,
		calls:   map[string]int{},
		fail:    map[string]client.Envelope[api.Record]{},
	}
}

func seedRecord(id, owner, text string) api.Record {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return api.Record{ID: id, Owner: owner, LogText: text, CreatedAt: at, UpdatedAt: at}
}

func (f *fakeServer) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeServer) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for op, c := range f.calls {
		if op != "List" && op != "Health" {
			n += c
		}
	}
	return n
}

func (f *fakeServer) enter(op string) (client.Envelope[api.Record], bool) {
	f.mu.Lock()
	f.calls[op]++
	gate := f.gate
	entered := f.entered
	env, failed := f.fail[op]
	f.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- op
		}
		<-gate
	}
	return env, failed
}

func (f *fakeServer) List(ctx context.Context) client.Envelope[[]api.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["List"]++
	if f.listFail != "" {
		return client.Envelope[[]api.Record]{Success: false, Error: f.listFail, Status: http.StatusInternalServerError}
	}
	out := make([]api.Record, len(f.records))
	copy(out, f.records)
	return client.Envelope[[]api.Record]{Success: true, Data: out, Status: http.StatusOK}
}

func (f *fakeServer) Create(ctx context.Context, owner, logText string) client.Envelope[api.Record] {
	if env, failed := f.enter("Create"); failed {
		return env
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	r := seedRecord(fmt.Sprintf("srv-%d", f.seq), owner, logText)
	f.records = append(f.records, r)
	return client.Envelope[api.Record]{Success: true, Data: r, Status: http.StatusCreated}
}

func (f *fakeServer) Update(ctx context.Context, id, owner, logText string) client.Envelope[api.Record] {
	if env, failed := f.enter("Update"); failed {
		return env
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Owner = owner
			f.records[i].LogText = logText
			f.records[i].UpdatedAt = f.records[i].UpdatedAt.Add(time.Minute)
			return client.Envelope[api.Record]{Success: true, Data: f.records[i], Status: http.StatusOK}
		}
	}
	return client.Envelope[api.Record]{Success: false, Error: "Log not found", Status: http.StatusNotFound}
}

func (f *fakeServer) Delete(ctx context.Context, id string) client.Envelope[api.Record] {
	if env, failed := f.enter("Delete"); failed {
		return env
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			r := f.records[i]
			f.records = append(f.records[:i], f.records[i+1:]...)
			return client.Envelope[api.Record]{Success: true, Data: r, Status: http.StatusOK}
		}
	}
	return client.Envelope[api.Record]{Success: false, Error: "Log not found", Status: http.StatusNotFound}
}

func (f *fakeServer) Health(ctx context.Context) client.Envelope[struct{}] {
	return client.Envelope[struct{}]{Success: true, Status: http.StatusOK}
}

func (f *fakeServer) Export(ctx context.Context) client.Envelope[api.Export] {
	return client.Envelope[api.Export]{Success: false, Error: "Export is disabled", Status: http.StatusServiceUnavailable}
}

func newTestTable(srv *fakeServer) (*Table, *notify.Recorder) {
	rec := &notify.Recorder{}
	return NewTable(srv, rec, 10, logging.NewNopLogger()), rec
}

func serverError(msg string) client.Envelope[api.Record] {
	return client.Envelope[api.Record]{Success: false, Error: msg, Status: http.StatusInternalServerError}
}
