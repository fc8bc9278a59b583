// Package server exposes registered components over HTTP: a content
// route, a data route and a manifest route per (component, view) pair,
// plus health and the hot-reload websocket used in development.
//
// The server owns the process-wide wiring: one bus manager, one render
// cache, one engine registry and one composition pipeline, selected
// for development or production at startup.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/weaver/internal/bus"
	"github.com/conneroisu/weaver/internal/cache"
	"github.com/conneroisu/weaver/internal/compose"
	"github.com/conneroisu/weaver/internal/config"
	"github.com/conneroisu/weaver/internal/logging"
	"github.com/conneroisu/weaver/internal/registry"
	"github.com/conneroisu/weaver/internal/renderer"
	"github.com/conneroisu/weaver/internal/watcher"
)

// CacheHeader reports whether a response was served from the render
// cache.
const CacheHeader = "X-Weaver-Cache"

// Server composes and serves registered components.
type Server struct {
	config     *config.Config
	logger     logging.Logger
	registry   *registry.ComponentRegistry
	pipeline   *compose.Pipeline
	engines    *renderer.Registry
	cache      *cache.RenderCache
	busManager *bus.Manager
	bus        *bus.Bus
	hub        *Hub
	watcher    *watcher.TemplateWatcher

	httpServer *http.Server
	mu         sync.RWMutex
}

// Options allows embedding applications to extend the server before it
// starts.
type Options struct {
	// Logger defaults to a text logger at the configured level.
	Logger logging.Logger
	// Global is the app-wide scope configuration for every render.
	Global compose.ScopeConfig
	// Engines defaults to a registry with the html and templ engines.
	Engines *renderer.Registry
}

// New creates a server from the configuration. Components found on the
// configured scan paths are registered automatically; more can be
// added through Registry before Start.
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(&logging.Config{
			Level:  logging.ParseLevel(cfg.Log.Level),
			Format: cfg.Log.Format,
		})
	}

	engines := opts.Engines
	if engines == nil {
		engines = renderer.NewRegistry()
		engines.Register(renderer.TechnologyHTML, renderer.NewHTMLEngine())
		engines.Register(renderer.TechnologyTempl, renderer.NewTemplEngine())
	}

	manager := bus.NewManager()
	renderCache := cache.New()
	hub := NewHub(cfg.Server.AllowedOrigins, logger.WithComponent("websocket"))

	s := &Server{
		config:     cfg,
		logger:     logger,
		registry:   registry.New(),
		engines:    engines,
		cache:      renderCache,
		busManager: manager,
		bus:        bus.New(manager),
		hub:        hub,
	}

	strategy, err := s.buildStrategy()
	if err != nil {
		return nil, err
	}

	s.pipeline = compose.NewPipeline(compose.PipelineOptions{
		Global:    opts.Global,
		Engines:   engines,
		Strategy:  strategy,
		Wrapper:   compose.WrapperConfig{Tag: cfg.Encapsulation.Tag, Classes: cfg.Encapsulation.Classes},
		ServerURL: cfg.ServerURL(),
		Logger:    logger.WithComponent("pipeline"),
	})

	components, err := config.LoadComponents(cfg.Components.ScanPaths)
	if err != nil {
		return nil, fmt.Errorf("scanning components: %w", err)
	}
	for _, component := range components {
		s.registry.Register(component)
	}

	return s, nil
}

// buildStrategy selects the production or development render strategy
// once, keeping the request path branch-free.
func (s *Server) buildStrategy() (compose.Strategy, error) {
	if !s.config.IsDevelopment() {
		return compose.NewProductionStrategy(s.cache), nil
	}

	var transform compose.Transform
	if s.config.Development.HotReload {
		dev := NewDevServer(s.hub)
		transform = dev.Transform
	}
	return compose.NewDevelopmentStrategy(templateFromDisk, transform), nil
}

// templateFromDisk re-reads a file-backed template so development
// renders always use the freshest source.
func templateFromDisk(view *compose.View) (string, error) {
	if view.TemplatePath == "" {
		return view.Template, nil
	}
	return readTemplate(view.TemplatePath)
}

// Registry returns the component registry for programmatic
// registration.
func (s *Server) Registry() *registry.ComponentRegistry {
	return s.registry
}

// Bus returns the process-wide message bus.
func (s *Server) Bus() *bus.Bus {
	return s.bus
}

// BusManager returns the shared dispatch/history manager so embedding
// applications can construct additional Bus values.
func (s *Server) BusManager() *bus.Manager {
	return s.busManager
}

// Engines returns the rendering engine registry.
func (s *Server) Engines() *renderer.Registry {
	return s.engines
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	s.routes(mux)

	if !s.config.IsDevelopment() {
		go s.cache.Sweep(ctx, s.config.SweepInterval())
	}

	if s.config.IsDevelopment() {
		if err := s.startWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "template watcher unavailable")
		}
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	handler := s.withLogging(mux)

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "server starting",
		"addr", addr,
		"environment", s.config.Server.Environment,
		"components", s.registry.Count(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.hub.Close()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return srv.Shutdown(shutdownCtx)
}

// startWatcher begins watching the scan paths for template changes. A
// change invalidates nothing server-side (development never caches)
// but notifies connected clients and the bus.
func (s *Server) startWatcher(ctx context.Context) error {
	w, err := watcher.New(300 * time.Millisecond)
	if err != nil {
		return err
	}

	w.AddFilter(func(path string) bool {
		return strings.HasSuffix(path, ".html") ||
			strings.HasSuffix(path, ".tmpl") ||
			strings.HasSuffix(path, ".yaml")
	})
	w.AddHandler(func(events []watcher.ChangeEvent) {
		s.logger.Info(ctx, "templates changed", "count", len(events))
		s.hub.BroadcastReload()
		if err := s.bus.ToAll("template-changed", len(events)); err != nil {
			s.logger.Warn(ctx, err, "broadcasting template change")
		}
	})

	for _, path := range s.config.Components.ScanPaths {
		if err := w.AddPath(path); err != nil {
			s.logger.Warn(ctx, err, "watching path", "path", path)
		}
	}

	w.Start(ctx)
	s.watcher = w
	return nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("/ws", s.hub.ServeHTTP)
	mux.Handle("GET /{component}/{view}/{$}", s.errorHandler(s.handleContent))
	mux.Handle("GET /{component}/{view}/data", s.errorHandler(s.handleData))
	mux.Handle("GET /{component}/{view}/manifest", s.errorHandler(s.handleManifest))
}
