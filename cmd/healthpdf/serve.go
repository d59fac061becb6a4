package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/hints"
	"github.com/alnah/go-healthpdf/internal/httpapi"
	"github.com/alnah/go-healthpdf/internal/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// runServe starts the HTTP API and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(flags.common, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}
	conv, err := healthpdf.NewConverter(opts...)
	if err != nil {
		return err
	}

	storeCfg, err := storageConfig(cfg)
	if err != nil {
		return err
	}
	store, err := storage.Select(ctx, storeCfg)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForStorage())
	}

	var pdfDir string
	if local, ok := store.(*storage.LocalStore); ok {
		pdfDir = local.Dir()
	}

	gin.SetMode(gin.ReleaseMode)
	api := httpapi.New(httpapi.Options{
		Renderer:       conv,
		Store:          store,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PDFDir:         pdfDir,
		Now:            env.Now,
	})

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	logger.Info("server started",
		zap.String("addr", ln.Addr().String()),
		zap.Int("concurrency", conv.Concurrency()),
		zap.String("schema", conv.Schema()),
		zap.String("storage", backendName(store)),
		zap.String("target", storageTarget(store)),
	)
	return serveHTTP(ctx, &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}, ln, logger)
}

// serveHTTP serves on ln until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func backendName(s storage.Store) string {
	if _, ok := s.(*storage.LocalStore); ok {
		return storage.BackendLocal
	}
	return storage.BackendS3
}

func storageTarget(s storage.Store) string {
	switch st := s.(type) {
	case *storage.LocalStore:
		return st.Dir()
	case *storage.S3Store:
		return "s3://" + st.Bucket()
	}
	return ""
}
