// Package rest exposes the record store over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/logging"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
	"github.com/dmitrijs2005/logkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// LogStore is the record store as seen by the handlers.
type LogStore interface {
	List(ctx context.Context) ([]*models.Log, error)
	Create(ctx context.Context, owner, logText string) (*models.Log, error)
	Update(ctx context.Context, id, owner, logText string) (*models.Log, error)
	Delete(ctx context.Context, id string) (*models.Log, error)
}

type Exporter interface {
	Export(ctx context.Context) (*services.ExportResult, error)
}

type RESTServer struct {
	address         string
	logs            LogStore
	exporter        Exporter
	logger          logging.Logger
	shutdownTimeout time.Duration
	router          *gin.Engine
	now             func() time.Time
}

func NewRESTServer(address string, l logging.Logger, logs LogStore, exporter Exporter, shutdownTimeout time.Duration) *RESTServer {
	s := &RESTServer{
		address:         address,
		logs:            logs,
		exporter:        exporter,
		logger:          l.With("module", "rest_server"),
		shutdownTimeout: shutdownTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
	s.router = s.routes()
	return s
}

func (s *RESTServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.logger), Logger(s.logger), CORS())

	r.GET("/health", s.health)

	logs := r.Group(common.LogsPath)
	{
		logs.GET("", s.listLogs)
		logs.POST("", s.createLog)
		logs.PUT("/:id", s.updateLog)
		logs.DELETE("/:id", s.deleteLog)
	}

	r.POST("/exports", s.export)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not found")
	})

	return r
}

// Handler returns the router, mainly for httptest.
func (s *RESTServer) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *RESTServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *RESTServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting REST server", "address", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping REST server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
