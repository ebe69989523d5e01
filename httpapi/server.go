// Package httpapi exposes query validation and evaluation over HTTP: a
// thin gorilla/mux router in front of the query package, logging through
// zap with lumberjack-rotated output, matching the teacher's choice of
// libraries for routing and logging even though the teacher itself never
// grew an HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/siftql/siftql/querycache"
	"github.com/siftql/siftql/stats"
)

// slowValidateThreshold is the evaluation latency past which a /validate
// item is logged as a warning alongside its normal stats observation.
const slowValidateThreshold = 50 * time.Millisecond

// Config controls the server's listen address and log destination.
type Config struct {
	Addr       string
	LogPath    string
	MaxLogSize int // megabytes
}

// ConfigFromEnv reads PORT (defaulting to 3000) and SIFTQL_LOG_PATH
// (defaulting to stderr-only logging) the way a small service's config
// usually comes from its environment rather than flags.
func ConfigFromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return Config{
		Addr:       ":" + port,
		LogPath:    os.Getenv("SIFTQL_LOG_PATH"),
		MaxLogSize: 100,
	}
}

// Server serves the validate/health HTTP API.
type Server struct {
	cfg    Config
	log    *zap.Logger
	router   *mux.Router
	http     *http.Server
	cache    *querycache.Cache
	recorder *stats.Recorder
}

// New builds a Server from cfg. Call Start to begin listening.
func New(cfg Config) (*Server, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      logger,
		router:   mux.NewRouter(),
		cache:    querycache.New(5 * time.Minute),
		recorder: stats.NewRecorder(),
	}
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	s.router.HandleFunc("/cache/stats", s.handleCacheStats).Methods(http.MethodGet)
	s.router.HandleFunc("/cache/inspect", s.handleCacheInspect).Methods(http.MethodPost)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	s.http = &http.Server{Addr: cfg.Addr, Handler: s.router}
	return s, nil
}

func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.LogPath == "" {
		return zap.NewProduction()
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    cfg.MaxLogSize,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(lj), zap.NewAtomicLevelAt(zapcore.InfoLevel))
	return zap.New(core), nil
}

// Handler returns the server's router, for tests and for embedding the
// API into a process that manages its own http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the context is cancelled, at
// which point it shuts the HTTP server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// validateItem is one element of the /validate request body: a document
// (input) and the query it should be tested against.
type validateItem struct {
	Input any `json:"input"`
	Query any `json:"query"`
}

type validateResult struct {
	Valid bool `json:"valid"`
}

type validateError struct {
	Error string `json:"error"`
}

// handleValidate tests a batch of {input, query} pairs and returns a
// {valid: bool} result per pair, in request order. Any single item
// failing to compile or evaluate converts the whole response to 400,
// identifying which index failed, rather than returning a partial batch.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var items []validateItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		s.writeJSON(w, http.StatusBadRequest, validateError{Error: "invalid request body: " + err.Error()})
		return
	}

	results := make([]validateResult, len(items))
	for i, item := range items {
		// Repeated validate calls against the same query document are
		// the common case for a long-running service, so the compiled
		// form is cached rather than reparsed on every request.
		compiled, err := s.cache.GetOrCompile(item.Query)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, validateError{Error: fmt.Sprintf("item %d: %v", i, err)})
			return
		}
		start := time.Now()
		matched, err := compiled.Test(item.Input)
		elapsed := time.Since(start)
		s.recorder.Observe(err == nil && matched, elapsed)
		if elapsed > slowValidateThreshold {
			s.log.Warn("slow validate item",
				zap.Int("index", i),
				zap.Duration("elapsed", elapsed),
			)
		}
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, validateError{Error: fmt.Sprintf("item %d: %v", i, err)})
			return
		}
		results[i] = validateResult{Valid: matched}
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cache.Stats())
}

// handleCacheInspect echoes back the exact JSON source currently cached
// for the posted query document, decompressed from the cache's stored
// snappy-encoded form, for debugging what a given cache key actually
// holds. Responds 404 if the query isn't (or is no longer) cached.
func (s *Server) handleCacheInspect(w http.ResponseWriter, r *http.Request) {
	var queryDoc any
	if err := json.NewDecoder(r.Body).Decode(&queryDoc); err != nil {
		s.writeJSON(w, http.StatusBadRequest, validateError{Error: "invalid request body: " + err.Error()})
		return
	}
	raw, ok := s.cache.Inspect(queryDoc)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, validateError{Error: "query not cached"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// handleStats reports evaluation latency and match-rate statistics
// accumulated across every /validate call this server has handled.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.recorder.Snapshot())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}
