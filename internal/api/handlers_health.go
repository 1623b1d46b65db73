// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
	// StoredQueries is the query store row count, present when the
	// store is reachable.
	StoredQueries *int64 `json:"stored_queries,omitempty"`
}

// Health reports overall service health including storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	status := "ok"
	code := http.StatusOK

	var stored *int64
	if err := h.db.Ping(r.Context()); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else if count, err := h.db.Count(r.Context()); err == nil {
		stored = &count
	}

	respondJSON(w, code, healthResponse{
		Status:        status,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		Checks:        checks,
		StoredQueries: stored,
	})
}

// HealthLive reports process liveness only.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.version})
}

// HealthReady reports readiness to serve traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database not ready")
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ready", Version: h.version})
}
