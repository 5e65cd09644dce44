package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/exchangekit/excheck/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		interval time.Duration
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered artifacts over HTTP",
		Long: `Build the version catalog and serve its artifacts over HTTP:

  /               browsable version table
  /versions.yaml  full version tree
  /alive.json     flat list of supported build numbers
  /healthz        liveness probe

The catalog is rebuilt in the background on the given interval, so the
served artifacts track the upstream tables without restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context(), addr, interval, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&interval, "interval", 6*time.Hour, "catalog rebuild interval")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// artifactStore holds the latest rendered artifacts behind a lock so the
// rebuild goroutine can swap them while requests are served.
type artifactStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	builtAt   time.Time
}

func (s *artifactStore) set(artifacts map[string][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = artifacts
	s.builtAt = time.Now()
}

func (s *artifactStore) get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.artifacts[name]
	return data, ok
}

func (c *CLI) runServe(ctx context.Context, addr string, interval time.Duration, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() { _ = runner.Cache.Close() }()

	store := &artifactStore{}
	rebuild := func(ctx context.Context) error {
		result, err := runner.Execute(ctx, c.pipelineOptions())
		if err != nil {
			return err
		}
		store.set(result.Artifacts)
		return nil
	}

	// The first build is fatal; later rebuilds keep serving stale
	// artifacts on failure.
	if err := rebuild(ctx); err != nil {
		return fmt.Errorf("initial catalog build: %w", err)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rebuild(ctx); err != nil {
					c.Logger.Error("catalog rebuild failed, serving stale artifacts", "err", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.router(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving catalog", "addr", addr, "interval", interval)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (c *CLI) router(store *artifactStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(c.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		store.mu.RLock()
		builtAt := store.builtAt
		store.mu.RUnlock()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "ok %s\n", builtAt.UTC().Format(time.RFC3339))
	})
	r.Get("/", serveArtifact(store, pipeline.ArtifactHTML, "text/html; charset=utf-8"))
	r.Get("/versions.html", serveArtifact(store, pipeline.ArtifactHTML, "text/html; charset=utf-8"))
	r.Get("/versions.yaml", serveArtifact(store, pipeline.ArtifactYAML, "application/yaml"))
	r.Get("/alive.json", serveArtifact(store, pipeline.ArtifactAlive, "application/json"))

	return r
}

func serveArtifact(store *artifactStore, name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, ok := store.get(name)
		if !ok {
			http.Error(w, "catalog not built yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

// requestLogger logs one line per request with the shared logger.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), c.Logger)))
		c.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
