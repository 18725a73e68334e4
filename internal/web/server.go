// Package web serves the spreadsheet upload form and runs uploaded tables
// through the invoice batch.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/sheetbill/internal/batch"
	"github.com/cleared-dev/sheetbill/internal/config"
	"github.com/cleared-dev/sheetbill/internal/metrics"
	"github.com/cleared-dev/sheetbill/internal/table"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server is the upload boundary.
type Server struct {
	cfg     *config.Config
	runner  *batch.Runner
	tables  *table.Registry
	metrics *metrics.Registry
	log     *slog.Logger
}

// New creates a Server. runner renders uploads; m may be nil.
func New(cfg *config.Config, runner *batch.Runner, m *metrics.Registry, log *slog.Logger) *Server {
	tables := runner.Tables
	if tables == nil {
		tables = table.DefaultRegistry()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, runner: runner, tables: tables, metrics: m, log: log}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))
	r.MaxMultipartMemory = s.cfg.Server.MaxUploadBytes()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.index)
	r.POST("/upload", s.upload)
	r.GET("/download/:invoice", s.download)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
