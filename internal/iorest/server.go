// Package iorest serves GNforms over HTTP with gin. Requests and responses
// are JSON except CSV uploads and downloads.
package iorest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gnforms/internal/ioauth"
	"github.com/gnames/gnforms/pkg/config"
	"github.com/gnames/gnforms/pkg/formbuilder"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server is the REST API of GNforms.
type Server struct {
	cfg     *config.Config
	fb      *formbuilder.Builder
	auth    *ioauth.Auth
	metrics *metrics
	router  *gin.Engine
}

// New creates a Server and registers its routes.
func New(cfg *config.Config, fb *formbuilder.Builder, auth *ioauth.Auth) *Server {
	gin.SetMode(gin.ReleaseMode)
	res := &Server{
		cfg:     cfg,
		fb:      fb,
		auth:    auth,
		metrics: newMetrics(),
		router:  gin.New(),
	}
	res.routes()
	return res
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), requestID(), s.observe(), s.authenticate())

	r.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}),
	))

	api := r.Group("/api")
	api.GET("/ping", ping)
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	api.GET("/imported-csvs", s.listImports)
	api.GET("/imported-csvs/:id", s.getImport)
	api.GET("/export-csv/:id", s.exportImport)

	api.GET("/forms", s.listForms)
	api.GET("/forms/:id", s.getForm)
	api.GET("/forms/:id/export", s.exportForm)
	api.GET("/forms/:id/questions", s.history)
	api.GET("/sections/:id/questions/:name/versions", s.listVersions)

	auth := api.Group("", requireUser())
	auth.GET("/user/profile", s.profile)
	auth.PUT("/user/password", s.changePassword)
	auth.POST("/import-csv", s.importCSV)
	auth.DELETE("/imported-csvs/:id", s.deleteImport)
	auth.POST("/forms", s.createForm)
	auth.POST("/forms/from-questions", s.createFormFromQuestions)
	auth.POST("/forms/from-imports", s.convertImports)
	auth.DELETE("/forms/:id", s.deleteForm)
	auth.PUT("/questions/:id", s.updateQuestion)
	auth.DELETE("/questions/:id", s.deleteQuestion)
}

// Run serves until ctx is cancelled or the process gets SIGINT or
// SIGTERM, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting REST server", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return ListenError(srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down REST server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
