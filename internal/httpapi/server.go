package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/reachmon/internal/httpapi/middleware"
	"github.com/hamed0406/reachmon/internal/monitor"
	"github.com/hamed0406/reachmon/internal/scheduler"
)

// Cycler runs one sweep over every target. *scheduler.Runner satisfies it.
type Cycler interface {
	RunCycle(ctx context.Context) scheduler.CycleStats
}

type Server struct {
	Logger        *zap.Logger
	Registry      *monitor.Registry
	Cycler        Cycler
	RefreshOnView bool
}

func NewServer(l *zap.Logger, reg *monitor.Registry, c Cycler, refreshOnView bool) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Registry: reg, Cycler: c, RefreshOnView: refreshOnView}
}

// Options configures access control on the router.
type Options struct {
	Credentials apimw.Credentials
	CycleRPM    int // limit on requests that trigger a cycle; <= 0 disables
	CycleBurst  int
}

func (s *Server) Router(opt Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	limit := apimw.RateLimit(opt.CycleRPM, opt.CycleBurst)

	r.Group(func(r chi.Router) {
		r.Use(apimw.BasicAuth("reachmon", opt.Credentials))

		r.With(when(s.pageRefreshes, limit)).Get("/", s.handlePage)

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.AllowAll().Handler)
			r.With(when(wantsRefresh, limit)).Get("/targets", s.handleListTargets)
			r.With(limit).Post("/cycle", s.handleCycle)
		})
	})
	return r
}

// when applies mw only to requests matching pred.
func when(pred func(*http.Request) bool, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pred(r) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) pageRefreshes(*http.Request) bool { return s.RefreshOnView }

func wantsRefresh(r *http.Request) bool {
	switch r.URL.Query().Get("refresh") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type targetsResponse struct {
	Targets []monitor.Snapshot `json:"targets"`
}

type cycleResponse struct {
	Stats   scheduler.CycleStats `json:"stats"`
	Targets []monitor.Snapshot   `json:"targets"`
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	if wantsRefresh(r) {
		s.Cycler.RunCycle(r.Context())
	}
	writeJSON(w, http.StatusOK, targetsResponse{Targets: s.Registry.Snapshots()})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	st := s.Cycler.RunCycle(r.Context())
	s.Logger.Info("cycle_requested",
		zap.String("remote", r.RemoteAddr),
		zap.Int("up", st.Up),
		zap.Int("down", st.Down),
	)
	writeJSON(w, http.StatusOK, cycleResponse{Stats: st, Targets: s.Registry.Snapshots()})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.RefreshOnView {
		s.Cycler.RunCycle(r.Context())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, s.Registry.Snapshots()); err != nil {
		s.Logger.Warn("page_render_error", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
