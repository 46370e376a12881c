package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/TuanAnhhh123/M26-HKT/internal/assets"
	"github.com/TuanAnhhh123/M26-HKT/internal/config"
	"github.com/TuanAnhhh123/M26-HKT/internal/console"
	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
	"github.com/TuanAnhhh123/M26-HKT/internal/middleware"
	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

// Server serves the admin console.
type Server struct {
	cfg      *config.Config
	resolver *router.Resolver
	source   assets.Source
	shell    *assets.Shell
	static   *assets.Handler
	metrics  *middleware.Metrics
	tracing  *middleware.Tracing
	registry *prometheus.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
	handler  http.Handler

	httpServer *http.Server
	sessions   atomic.Int64
}

type options struct {
	source         assets.Source
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*options)

// WithSource overrides the asset source selected by the config.
func WithSource(src assets.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithRegistry sets the Prometheus registry metrics are registered on.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithTracerProvider sets the tracer provider used for spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a server from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		logger: o.logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	if cfg.Metrics.Enabled {
		s.registry = o.registry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
			s.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		s.metrics = middleware.NewMetrics(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
	}

	tracingOpts := []middleware.TracingOption{middleware.WithTracerName(cfg.Tracing.TracerName)}
	if o.tracerProvider != nil {
		tracingOpts = append(tracingOpts, middleware.WithTracerProvider(o.tracerProvider))
	}
	s.tracing = middleware.NewTracing(tracingOpts...)

	routerOpts, err := cfg.RouterOptions()
	if err != nil {
		return nil, err
	}
	routerOpts = append(routerOpts, router.WithObserver(s.logResolution))
	if s.metrics != nil {
		routerOpts = append(routerOpts, router.WithObserver(s.metrics.Observer()))
	}
	s.resolver, err = console.NewResolver(routerOpts...)
	if err != nil {
		return nil, errors.New("E200").Wrap(err)
	}

	s.source = o.source
	if s.source == nil {
		s.source, err = OpenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	manifest, err := assets.LoadManifest(ctx, s.source)
	if err != nil {
		return nil, err
	}
	s.shell = assets.NewShell(s.source, assets.WithManifest(manifest, cfg.Assets.Prefix))
	s.static = assets.NewHandler(s.source, cfg.Assets.Prefix,
		assets.WithCacheControl(cfg.Assets.CacheControl),
		assets.WithHeader("X-Content-Type-Options", "nosniff"),
		assets.WithLogger(o.logger.With("component", "assets")),
	)

	s.handler = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
		IdleTimeout:       cfg.IdleTimeout(),
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}
	return s, nil
}

// OpenSource returns the asset source selected by cfg.
func OpenSource(ctx context.Context, cfg *config.Config) (assets.Source, error) {
	switch cfg.Assets.Source {
	case config.AssetSourceDir:
		return assets.NewDirSource(cfg.AssetsPath())
	case config.AssetSourceS3:
		s3cfg := cfg.Assets.S3
		return assets.NewS3SourceFromEnv(ctx, s3cfg.Bucket, s3cfg.Prefix, s3cfg.Region)
	default:
		return assets.NewEmbedSource(), nil
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Resolver returns the console resolver.
func (s *Server) Resolver() *router.Resolver {
	return s.resolver
}

// Sessions returns the number of open navigation sessions.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// Run listens on the configured address and serves until ctx is done or
// the process receives SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errors.New("E310").Wrap(err).
			WithSuggestion("Choose another port with --port or HKT_PORT")
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or Shutdown is called, then returns
// once the server has stopped.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	served := make(chan struct{})

	g.Go(func() error {
		defer close(served)
		s.logger.Info("server starting",
			"address", ln.Addr().String(),
			"history", s.resolver.History().Mode(),
			"assets", s.source.Kind(),
		)
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E310").Wrap(err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-served:
			return nil
		case <-gctx.Done():
		}
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout())
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return errors.New("E311").Wrap(err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) logResolution(requested string, res router.Resolution, ok bool) {
	switch {
	case !ok:
		s.logger.Warn("path did not resolve", "path", requested)
	case res.Redirected():
		s.logger.Debug("route redirected",
			"from", res.RedirectedFrom,
			"to", res.FullPath(),
			"view", res.View(),
			"hops", res.Hops,
		)
	}
}
