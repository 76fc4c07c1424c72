// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file with DENDA_* environment overrides.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artpar/denda/adapters/clock"
	apihttp "github.com/artpar/denda/adapters/http"
	"github.com/artpar/denda/adapters/idgen"
	"github.com/artpar/denda/adapters/memory"
	"github.com/artpar/denda/adapters/metrics"
	"github.com/artpar/denda/app"
	"github.com/artpar/denda/config"
	"github.com/artpar/denda/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Registry   *prometheus.Registry
	Catalog    *memory.CatalogStore
	Quotes     *app.QuoteService

	hotReload bool
	limiter   *apihttp.ClientLimiter
	cancel    context.CancelFunc
}

// Options provides configuration for application initialization.
type Options struct {
	ConfigPath string
	HotReload  bool // watch the config file and SIGHUP
	Build      apihttp.BuildInfo
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	// Initial load only sets up logging; the holder owns the config afterwards.
	initial, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := SetupLogger(initial.Logging)

	holder, err := config.NewHolder(opts.ConfigPath, logger.With().Str("component", "config").Logger())
	if err != nil {
		return nil, err
	}
	cfg := holder.Get()

	logger.Info().
		Str("config", holder.Path()).
		Str("penalty_mode", cfg.Penalty.Mode).
		Int("applications", len(cfg.Applications)).
		Int("packages", len(cfg.Packages)).
		Msg("initializing denda")

	a := &App{
		Logger:    logger,
		Config:    holder,
		Catalog:   memory.NewCatalogStore(cfg.Catalog(), cfg.Policy()),
		hotReload: opts.HotReload,
	}

	var recorder ports.QuoteRecorder
	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.Registry)
		recorder = a.Metrics
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	a.Quotes = app.NewQuoteService(a.Catalog, idgen.Quote{}, clock.System{}, recorder, logger)

	holder.OnChange(a.applyConfig)
	holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	a.initHTTPServer(cfg, opts.Build)
	return a, nil
}

// NewCalculator builds a quote service over a fixed configuration,
// for one-shot use outside the server.
func NewCalculator(cfg *config.Config, logger zerolog.Logger) *app.QuoteService {
	store := memory.NewCatalogStore(cfg.Catalog(), cfg.Policy())
	return app.NewQuoteService(store, idgen.Quote{}, clock.System{}, nil, logger)
}

func (a *App) initHTTPServer(cfg *config.Config, build apihttp.BuildInfo) {
	routerCfg := apihttp.RouterConfig{
		Metrics:     a.Metrics,
		MetricsPath: cfg.Metrics.Path,
		Build:       build,
	}
	if a.Registry != nil {
		routerCfg.MetricsGatherer = a.Registry
	}
	if cfg.RateLimit.Enabled {
		a.limiter = apihttp.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		routerCfg.RateLimiter = a.limiter
		a.Logger.Info().
			Float64("rps", cfg.RateLimit.RequestsPerSecond).
			Int("burst", cfg.RateLimit.Burst).
			Msg("api rate limiting enabled")
	}

	handler := apihttp.NewQuoteHandler(a.Quotes, a.Logger)
	router := apihttp.NewRouter(handler, a.Logger, routerCfg)

	a.HTTPServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.HTTPServer.Handler
}

// applyConfig installs a reloaded configuration.
func (a *App) applyConfig(cfg *config.Config) {
	a.Catalog.Replace(cfg.Catalog(), cfg.Policy())
	applyLogLevel(cfg.Logging.Level)

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	}

	a.Logger.Info().
		Uint64("catalog_version", a.Catalog.Version()).
		Str("penalty_mode", cfg.Penalty.Mode).
		Msg("catalog updated")
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.limiter != nil {
		a.limiter.StartJanitor(ctx)
	}

	if a.hotReload {
		if err := a.Config.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watching disabled")
		}
		a.Config.WatchSignals()
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.Config.Stop()
	if a.cancel != nil {
		a.cancel()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// SetupLogger builds the process logger from the logging configuration.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	applyLogLevel(cfg.Level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func applyLogLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
