package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/client/client"
	"github.com/dmitrijs2005/logkeeper/internal/client/config"
	"github.com/dmitrijs2005/logkeeper/internal/client/notify"
	"github.com/dmitrijs2005/logkeeper/internal/client/state"
	"github.com/dmitrijs2005/logkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	client   client.Client
	table    *state.Table
	notifier notify.Notifier
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	u, err := url.Parse(c.ServerEndpointAddr)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q", c.ServerEndpointAddr)
	}

	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)
	apiClient := client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	notifier := notify.NewConsoleNotifier(os.Stdout)

	return newApp(c, apiClient, notifier, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, n notify.Notifier, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		client:   cl,
		table:    state.NewTable(cl, n, c.PageSize, l),
		notifier: n,
		logger:   l.With("module", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "Switched mode", "mode", string(mode))
	}
}

// Run loads the table, starts the online watcher and reads commands until
// the input ends or the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to LogKeeper CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	if err := a.table.Load(ctx); err == nil {
		_ = a.List(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher probes the server every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Health(ctx).Err(); err != nil {
		a.logger.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) getStatus() string {
	v, _ := a.table.Page()
	pages := v.TotalPages
	if pages < 1 {
		pages = 1
	}
	s := fmt.Sprintf("page %d/%d", v.Page, pages)
	if m := a.Mode(); m != "" {
		s += ", " + string(m)
	}
	return s
}
