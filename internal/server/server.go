// Package server exposes builder engines over HTTP.
//
// Each scene created with POST /scenes owns an isolated [builder.Engine].
// Requests for a scene are serialized by a per-scene mutex, so an engine is
// only ever driven by one request at a time. Scenes save into their own
// namespace of the shared store ("scene:<id>:lego-build").
//
// Routes:
//
//	GET    /healthz
//	GET    /palette
//	POST   /scenes
//	GET    /scenes/{id}
//	DELETE /scenes/{id}
//	POST   /scenes/{id}/pointer          {"point":[x,y,z]}
//	POST   /scenes/{id}/select           {"id":"brick-3"} or {"id":null}
//	POST   /scenes/{id}/miss
//	POST   /scenes/{id}/undo
//	POST   /scenes/{id}/redo
//	POST   /scenes/{id}/save
//	POST   /scenes/{id}/load
//	POST   /scenes/{id}/clear            {"confirm":true}
//	PUT    /scenes/{id}/active-type      {"typeId":"brick-2x4"}
//	PUT    /scenes/{id}/camera           {"view":"top"}
//	GET    /scenes/{id}/selection
//	PUT    /scenes/{id}/selection/color  {"color":"#ef4444"}
//	DELETE /scenes/{id}/selection
//	GET    /scenes/{id}/bricks
//	PUT    /scenes/{id}/bricks           [{"id":...,"typeId":...,"position":[...]}]
//	GET    /scenes/{id}/plan.svg
//
// Errors are returned as {"code":"NOT_FOUND","message":"..."}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/brickyard/pkg/builder"
	"github.com/matzehuels/brickyard/pkg/catalog"
	"github.com/matzehuels/brickyard/pkg/config"
	errs "github.com/matzehuels/brickyard/pkg/errors"
	"github.com/matzehuels/brickyard/pkg/storage"
)

// Options configures a Server.
type Options struct {
	Catalog      *catalog.Catalog
	Store        storage.Store
	Logger       *log.Logger
	HistoryLimit int
	StorageKey   string
}

// Server holds the live scenes and the HTTP router.
type Server struct {
	opts   Options
	mu     sync.RWMutex
	scenes map[string]*scene
	router chi.Router
}

type scene struct {
	mu     sync.Mutex
	engine *builder.Engine
}

// New creates a server. Missing options fall back to the built-in catalog,
// an in-memory store and a logger that discards output.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.StorageKey == "" {
		opts.StorageKey = config.DefaultStorageKey
	}
	s := &Server{opts: opts, scenes: make(map[string]*scene)}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Len returns the number of live scenes.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenes)
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.Server) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.opts.Logger.Info("listening", "addr", cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.opts.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/palette", s.handlePalette)

	r.Route("/scenes", func(r chi.Router) {
		r.Post("/", s.handleCreateScene)
		r.Route("/{sceneID}", func(r chi.Router) {
			r.Get("/", s.withScene(s.handleState))
			r.Delete("/", s.handleDeleteScene)

			r.Post("/pointer", s.withScene(s.handlePointer))
			r.Post("/select", s.withScene(s.handleSelect))
			r.Post("/miss", s.withScene(s.handleMiss))

			r.Post("/undo", s.withScene(s.handleUndo))
			r.Post("/redo", s.withScene(s.handleRedo))
			r.Post("/save", s.withScene(s.handleSave))
			r.Post("/load", s.withScene(s.handleLoad))
			r.Post("/clear", s.withScene(s.handleClear))
			r.Put("/active-type", s.withScene(s.handleActiveType))
			r.Put("/camera", s.withScene(s.handleCamera))

			r.Get("/selection", s.withScene(s.handleSelection))
			r.Put("/selection/color", s.withScene(s.handleColor))
			r.Delete("/selection", s.withScene(s.handleDeleteSelection))

			r.Get("/bricks", s.withScene(s.handleExport))
			r.Put("/bricks", s.withScene(s.handleImport))
			r.Get("/plan.svg", s.withScene(s.handlePlan))
		})
	})
	return r
}

// =============================================================================
// Scenes
// =============================================================================

func (s *Server) createScene() string {
	id := uuid.NewString()
	e := builder.New(
		builder.WithCatalog(s.opts.Catalog),
		builder.WithStore(storage.Scoped(s.opts.Store, "scene:"+id+":")),
		builder.WithStorageKey(s.opts.StorageKey),
		builder.WithHistoryLimit(s.opts.HistoryLimit),
		builder.WithLogger(s.opts.Logger.With("scene", id)),
	)
	s.mu.Lock()
	s.scenes[id] = &scene{engine: e}
	s.mu.Unlock()
	return id
}

func (s *Server) lookup(id string) (*scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenes[id]
	return sc, ok
}

func (s *Server) deleteScene(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenes[id]; !ok {
		return false
	}
	delete(s.scenes, id)
	return true
}

type sceneHandler func(w http.ResponseWriter, r *http.Request, e *builder.Engine)

// withScene resolves {sceneID} and runs h while holding the scene lock.
func (s *Server) withScene(h sceneHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sceneID")
		sc, ok := s.lookup(id)
		if !ok {
			writeError(w, errs.New(errs.ErrCodeSceneNotFound, "scene %s not found", id))
			return
		}
		sc.mu.Lock()
		defer sc.mu.Unlock()
		h(w, r, sc.engine)
	}
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.opts.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	})
}
