package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lectern"
	lhttp "github.com/aretw0/lectern/pkg/adapters/http"
	lredis "github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Options
	Addr string
	// RedisAddr enables the Redis execution archive and distributed session locks.
	RedisAddr       string
	LockTTL         time.Duration
	ShutdownTimeout time.Duration
}

// Service is a fully wired HTTP service.
type Service struct {
	Handler  http.Handler
	Sessions *session.Manager
	Streams  *lhttp.StreamManager
	Metrics  *observability.Metrics
	closers  []func() error
}

// Close releases external connections.
func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewService wires sessions, metrics and event streams behind one router.
// Metrics are registered on reg and exposed at /metrics.
func NewService(opts ServeOptions, cfg Config, logger *slog.Logger, reg *prometheus.Registry) (*Service, error) {
	svc := &Service{
		Streams: lhttp.NewStreamManager(),
		Metrics: observability.NewMetrics(reg),
	}

	var extra []lectern.Option
	var sessionOpts []session.Option
	if opts.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: opts.RedisAddr})
		svc.closers = append(svc.closers, client.Close)
		store, err := WrapArchive(lredis.NewFromClient(client), cfg.Archive)
		if err != nil {
			return nil, errors.Join(err, svc.Close())
		}
		extra = append(extra, lectern.WithExecutionStore(store))
		sessionOpts = append(sessionOpts, session.WithLocker(lredis.NewLocker(client, "lectern:")))
	}
	if opts.LockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(opts.LockTTL))
	}
	sessionOpts = append(sessionOpts, session.WithLogger(logger))

	// Catch config errors at startup rather than on the first request.
	if _, err := NewGenerator(cfg.Generator); err != nil {
		return nil, err
	}

	factory := func(ctx context.Context, sessionID string) (*lectern.Workbench, error) {
		hooks := svc.Metrics.Hooks().
			Merge(observability.LogHooks(logger.With("session_id", sessionID))).
			Merge(svc.Streams.Hooks(sessionID))
		return NewWorkbench(ctx, opts.Options, cfg, logger, append([]lectern.Option{
			lectern.WithName(sessionID),
			lectern.WithLifecycleHooks(hooks),
		}, extra...)...)
	}
	svc.Sessions = session.NewManager(factory, sessionOpts...)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", lhttp.NewHandler(svc.Sessions, lhttp.WithStreams(svc.Streams), lhttp.WithLogger(logger)))
	svc.Handler = r
	return svc, nil
}

// Serve runs the HTTP service until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions, s Streams, getenv func(string) string) error {
	cfg, logger, err := Setup(opts.Options, getenv)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := NewService(opts, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           svc.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printSystemMessage(s.Err, "Starting Lectern Server on %s", srv.Addr)
		if opts.Dir != "" {
			printSystemMessage(s.Err, "Serving workflows from: %s", opts.Dir)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", timeout, "error", err)
			return srv.Close()
		}
		printSystemMessage(s.Err, "Lectern Server stopped gracefully")
		return nil
	})
	return g.Wait()
}
