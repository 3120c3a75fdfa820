package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Check reports whether a dependency is usable. A nil error means ready.
type Check func(ctx context.Context) error

// Probes backs /healthz and /readyz.
type Probes struct {
	// Draining flips /readyz to 503 regardless of Checks, e.g. once the worker pool is closed.
	Draining func() bool
	Checks   map[string]Check
	Timeout  time.Duration
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) MountProbes(p *Probes) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", p.ready)
}

func (p *Probes) ready(w http.ResponseWriter, r *http.Request) {
	if p.Draining != nil && p.Draining() {
		writeJSON(w, http.StatusServiceUnavailable, readiness{Status: "draining"})
		return
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	names := make([]string, 0, len(p.Checks))
	for n := range p.Checks {
		names = append(names, n)
	}
	sort.Strings(names)

	resp := readiness{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, n := range names {
		if err := p.Checks[n](ctx); err != nil {
			log.Warn().Str("check", n).Err(err).Msg("readiness check failed")
			resp.Checks[n] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[n] = "ok"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}
