// Package notify carries short user-facing messages ("toasts") from the
// client core to whatever presents them.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ConsoleNotifier prints one line per message, green for success and red
// for errors. Color is dropped when the output is not a terminal.
type ConsoleNotifier struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

// NewConsoleNotifier writes to w. Color is enabled only when w is an
// *os.File attached to a terminal.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	n := &ConsoleNotifier{
		w:       w,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
	if !isTerminal(w) {
		n.success.DisableColor()
		n.failure.DisableColor()
	}
	return n
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (n *ConsoleNotifier) Success(msg string) {
	n.print(n.success, "✔ "+msg)
}

func (n *ConsoleNotifier) Error(msg string) {
	n.print(n.failure, "✖ "+msg)
}

func (n *ConsoleNotifier) print(c *color.Color, line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.w, c.Sprint(line))
}

// Kind of a recorded notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: k, Message: msg})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Discard drops every message.
type Discard struct{}

func (Discard) Success(string) {}

func (Discard) Error(string) {}
