// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"net/http"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/track"
	"github.com/MateusDN896/RastroO/internal/validation"
)

// statusRequest is the manual annotation payload.
type statusRequest struct {
	Key    string `json:"key" validate:"required"`
	Status string `json:"status" validate:"required,statuslabel"`
}

// statusListResponse returns the full annotation map.
type statusListResponse struct {
	OK       bool                    `json:"ok"`
	Statuses map[string]track.Status `json:"statuses"`
}

// SetStatus handles POST /api/status. The key is normalized by
// stripping a leading @ so dashboard input matches ingested creators.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		respondError(w, http.StatusBadRequest, ve.Message())
		return
	}

	key := track.NormalizeStatusKey(req.Key)
	status, _ := track.ParseStatus(req.Status)

	if err := h.store.SetStatus(r.Context(), key, status); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("key", sanitizeLogValue(key)).
			Msg("status annotation write failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Statuses handles GET /api/status.
func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.store.Statuses(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("status annotation read failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, statusListResponse{OK: true, Statuses: statuses})
}
