// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pocketledger/internal/cache"
	"pocketledger/internal/extract"
	"pocketledger/internal/services"
	"pocketledger/internal/storage"
)

type Server struct {
	http.Server
	service     *services.LedgerService
	store       *storage.Store
	pipeline    *extract.Pipeline
	rateLimiter *rateLimiter

	// Aggregate responses are cached per query and purged on any write.
	statsCache *cache.LRU[[]byte]

	stopJanitor  context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. The
// pipeline may be nil, in which case the assistant endpoint reports
// itself unavailable.
func NewServer(addr string, service *services.LedgerService, store *storage.Store, pipeline *extract.Pipeline) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		service:     service,
		store:       store,
		pipeline:    pipeline,
		rateLimiter: newRateLimiter(),
		statsCache:  cache.NewLRU[[]byte](100, 5*time.Minute),
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.statsCache.StartJanitor(janitorCtx, 10*time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/transactions/export", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("POST /api/transactions/import", s.withMiddleware(s.handleImportCSV))

	mux.HandleFunc("GET /api/stats/monthly", s.withMiddleware(s.handleMonthlySum))
	mux.HandleFunc("GET /api/stats/daily", s.withMiddleware(s.handleDailySummaries))
	mux.HandleFunc("GET /api/stats/categories", s.withMiddleware(s.handleCategoryStats))

	mux.HandleFunc("GET /api/todos", s.withMiddleware(s.handleListTodos))
	mux.HandleFunc("POST /api/todos", s.withMiddleware(s.handleCreateTodo))
	mux.HandleFunc("GET /api/todos/today", s.withMiddleware(s.handleTodayTodos))
	mux.HandleFunc("GET /api/todos/counts", s.withMiddleware(s.handleTodoCounts))
	mux.HandleFunc("PUT /api/todos/{id}", s.withMiddleware(s.handleUpdateTodo))
	mux.HandleFunc("PATCH /api/todos/{id}/status", s.withMiddleware(s.handleUpdateTodoStatus))
	mux.HandleFunc("DELETE /api/todos/{id}", s.withMiddleware(s.handleDeleteTodo))

	mux.HandleFunc("GET /api/diary", s.withMiddleware(s.handleListDiary))
	mux.HandleFunc("POST /api/diary", s.withMiddleware(s.handleCreateDiary))
	mux.HandleFunc("PUT /api/diary/{id}", s.withMiddleware(s.handleUpdateDiary))
	mux.HandleFunc("DELETE /api/diary/{id}", s.withMiddleware(s.handleDeleteDiary))

	mux.HandleFunc("POST /api/assistant/parse", s.withMiddleware(s.handleAssistantParse))

	return s
}

// Shutdown stops the HTTP server and background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopJanitor != nil {
			s.stopJanitor()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request IDs, rate limiting on writes, security
// headers and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// Simple in-memory rate limiter, 60 write requests per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// cachedJSON serves the aggregate under key from the cache, computing and
// storing it on a miss.
func (s *Server) cachedJSON(w http.ResponseWriter, key string, compute func() (any, error)) {
	if body, ok := s.statsCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	v, err := compute()
	if err != nil {
		slog.Error("Aggregate query failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	body = append(body, '\n')

	s.statsCache.Set(key, body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// invalidateStats drops every cached aggregate. Called after any write
// that can move a total.
func (s *Server) invalidateStats() {
	s.statsCache.Purge()
}
