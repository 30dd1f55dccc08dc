package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/pstruct/pkg/journal"
)

// ServerConfig configures the diagnostics HTTP server.
type ServerConfig struct {
	Port int
	Bind string
}

// Server is the diagnostics HTTP server: engine introspection and
// journal queries over chi, grounded on the teacher's pkg/api/server.go
// routing shape.
type Server struct {
	engine  EngineInspector
	journal *journal.Store
	metrics *Metrics
}

// NewServer builds a Server over engine and journal. journal may be nil
// when the caller didn't enable the journal sidecar (config.Journal.Enabled
// == false); GET /journal then reports 503.
func NewServer(engine EngineInspector, j *journal.Store, metrics *Metrics) *Server {
	return &Server{engine: engine, journal: j, metrics: metrics}
}

// Router builds the chi router: middleware stack, then routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/journal", s.handleJournal)

	return r
}

// ListenAndServe starts the diagnostics server; it blocks until the
// listener errors or the process is killed.
func (s *Server) ListenAndServe(cfg ServerConfig) error {
	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	fmt.Printf("pstructctl diagnostics server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := Snapshot(s.engine)
	if s.metrics != nil {
		s.metrics.SetGeneration(snap.Counter)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := Snapshot(s.engine)
	writeJSON(w, http.StatusOK, map[string]uint32{
		"pages":             snap.Pages,
		"wear_levels":       snap.WearLevels,
		"storage_unit_size": snap.StorageUnitSize,
	})
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal sidecar not enabled", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveJournalQuery(time.Since(start).Seconds())
		}
	}()

	field := r.URL.Query().Get("field")
	if field == "" {
		entries, err := s.journal.All()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	fq, err := parseFieldQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := s.journal.Query(fq)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
