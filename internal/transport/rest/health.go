package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// storagePinger checks that the archive storage is reachable: the archive
// directory for the file driver, the database for the postgres driver.
type storagePinger interface {
	Ping(ctx context.Context) error
}

// journalSizer reports the number of meals held in memory.
type journalSizer interface {
	Len() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	storage storagePinger
	driver  string
	journal journalSizer
	version string
}

// NewHealthHandler creates a HealthHandler. driver names the storage
// component in /health output; journal may be nil.
func NewHealthHandler(storage storagePinger, driver string, journal journalSizer, version string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver, journal: journal, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Meals      *int                  `json:"meals,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings storage: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check. Pings storage with latency measurement and
// includes the version and the journal size.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.storage.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components[h.driver] = CompStatus{Status: "down"}
		overallStatus = "down"
	} else {
		components[h.driver] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	}
	if h.journal != nil {
		n := h.journal.Len()
		resp.Meals = &n
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
