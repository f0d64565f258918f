// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"net/http"
	"time"

	"github.com/MateusDN896/RastroO/internal/logging"
)

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondAck(w, time.Now().UnixMilli())
}

// HealthLive handles GET /api/health/live. The process is live as long
// as it can serve this request.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady handles GET /api/health/ready. Ready means the store
// answers reads.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Statuses(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness probe failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
