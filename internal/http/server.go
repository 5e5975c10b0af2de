// Package http serves the JSON API over the lease ledger.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"quanly/internal/cache"
	"quanly/internal/core"
	"quanly/internal/ledger"
	"quanly/internal/middleware/ratelimit"
	"quanly/internal/middleware/trace"
	"quanly/internal/services"
)

type Server struct {
	http.Server

	writer  ledger.EntryWriter
	reports *services.ReportService

	rateLimiter *ratelimit.Limiter

	// Report caches. A single appended entry can shift any consolidated
	// row, so writes purge them wholesale instead of by key.
	unitsCache     *cache.LRUCache[[]core.UnitSummary]
	dashboardCache *cache.LRUCache[services.Dashboard]
	lifetimeCache  *cache.LRUCache[[]core.UnitResult]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, writer ledger.EntryWriter, reports *services.ReportService, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		writer:         writer,
		reports:        reports,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		unitsCache:     cache.NewLRUCache[[]core.UnitSummary](16, cacheTTL),
		dashboardCache: cache.NewLRUCache[services.Dashboard](100, cacheTTL),
		lifetimeCache:  cache.NewLRUCache[[]core.UnitResult](16, cacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.unitsCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.lifetimeCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/units", s.handleUnits)
	mux.HandleFunc("/api/reports/lifetime", s.handleLifetimeReport)
	mux.HandleFunc("/api/reports/period", s.handlePeriodReport)
	mux.HandleFunc("/api/reports/cashflow", s.handleCashflowReport)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)

	traced := trace.NewMiddleware(clientIP)
	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(mux),
	}

	return s
}

// Shutdown stops the cleanup goroutines along with the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (s *Server) purgeReportCaches() {
	s.unitsCache.Purge()
	s.dashboardCache.Purge()
	s.lifetimeCache.Purge()
}

func dashboardKey(year, month int, taxRate float64) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month) + "-" + strconv.FormatFloat(taxRate, 'f', 4, 64)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the entry log answers
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.reports.Units(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store not reachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
