package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"caretrek-backend/internal/health"
	"caretrek-backend/internal/monitoring"
)

type MonitoringHandler struct {
	system  *monitoring.Service
	checker *health.Checker
	dbPool  *pgxpool.Pool
}

func NewMonitoringHandler(system *monitoring.Service, checker *health.Checker, dbPool *pgxpool.Pool) *MonitoringHandler {
	return &MonitoringHandler{system: system, checker: checker, dbPool: dbPool}
}

// Health serves the load balancer health check
func (h *MonitoringHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.checker.Check(r.Context())

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// System returns a point-in-time host and pool snapshot for the admin
// dashboard
func (h *MonitoringHandler) System(w http.ResponseWriter, r *http.Request) {
	snap, err := h.system.Snapshot()
	if err != nil {
		http.Error(w, "Failed to collect system metrics: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pool := h.dbPool.Stat()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"system": snap,
		"database_pool": map[string]interface{}{
			"total_conns":    pool.TotalConns(),
			"idle_conns":     pool.IdleConns(),
			"acquired_conns": pool.AcquiredConns(),
			"max_conns":      pool.MaxConns(),
		},
	})
}
