// Package http serves recolored tiles, the style API, and the change event
// stream.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/flowline-styler/internal/observability"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	"github.com/couchcryptid/flowline-styler/internal/style"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TileRenderer turns a data tile into a display PNG.
type TileRenderer interface {
	RenderTile(ctx context.Context, req raster.TileRequest) ([]byte, error)
}

// Server exposes the tile, style, event, health, and metrics endpoints.
type Server struct {
	httpServer   *http.Server
	store        *style.Store
	tiles        TileRenderer
	metrics      *observability.Metrics
	logger       *slog.Logger
	maxTileBytes int64

	// done is closed on Shutdown so open event streams end.
	done     chan struct{}
	doneOnce sync.Once
}

// NewServer wires every route onto one mux. Request bodies for tiles are
// capped at maxTileBytes.
func NewServer(
	addr string,
	store *style.Store,
	tiles TileRenderer,
	ready sharedobs.ReadinessChecker,
	metrics *observability.Metrics,
	logger *slog.Logger,
	maxTileBytes int64,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:        store,
		tiles:        tiles,
		metrics:      metrics,
		logger:       logger,
		maxTileBytes: maxTileBytes,
		done:         make(chan struct{}),
	}
	s.httpServer.RegisterOnShutdown(s.closeStreams)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/tiles/{layer}/{z}", s.handleTile)

	mux.HandleFunc("GET /v1/style", s.handleGetStyle)
	mux.HandleFunc("PUT /v1/style/threshold", s.handleThreshold)
	mux.HandleFunc("PUT /v1/style/zoom", s.handleZoom)
	mux.HandleFunc("PUT /v1/style/thresholds/{level}", s.handleThresholdForZoom)
	mux.HandleFunc("PUT /v1/style/lock", s.handleLock)
	mux.HandleFunc("PUT /v1/style/range", s.handleRange)
	mux.HandleFunc("PUT /v1/style/highlight", s.handleHighlight)
	mux.HandleFunc("PUT /v1/style/marker", s.handleMarker)

	mux.HandleFunc("GET /v1/events", s.handleEvents)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) closeStreams() {
	s.doneOnce.Do(func() { close(s.done) })
}

// withCORS allows any origin, matching the map server's cross-origin filter,
// and answers preflight requests for the style API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
