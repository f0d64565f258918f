// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/store"
	"github.com/MateusDN896/RastroO/internal/validation"
)

// creatorRequest is the creator registration payload.
type creatorRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=120"`
	Handle string `json:"handle" validate:"required,handle"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

// creatorListResponse returns the directory ordered by creation time.
type creatorListResponse struct {
	OK       bool            `json:"ok"`
	Creators []store.Creator `json:"creators"`
}

// creatorResponse wraps a single registered creator.
type creatorResponse struct {
	OK      bool          `json:"ok"`
	Creator store.Creator `json:"creator"`
}

// Creators handles GET /api/creators.
func (h *Handler) Creators(w http.ResponseWriter, r *http.Request) {
	creators, err := h.store.Creators(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("creator directory read failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if creators == nil {
		creators = []store.Creator{}
	}

	respondJSON(w, http.StatusOK, creatorListResponse{OK: true, Creators: creators})
}

// CreateCreator handles POST /api/creators. The handle is lowercased
// and stripped of a leading @ before the uniqueness check.
func (h *Handler) CreateCreator(w http.ResponseWriter, r *http.Request) {
	var req creatorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Handle = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.Handle), "@"))
	req.Name = strings.TrimSpace(req.Name)
	if ve := validation.ValidateStruct(req); ve != nil {
		respondError(w, http.StatusBadRequest, ve.Message())
		return
	}

	creator, err := h.store.CreateCreator(r.Context(), req.Name, req.Handle, strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateHandle) {
			respondError(w, http.StatusConflict, "handle already exists")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).
			Str("handle", sanitizeLogValue(req.Handle)).
			Msg("creator registration failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, creatorResponse{OK: true, Creator: creator})
}

// DeleteCreator handles DELETE /api/creators/{id}.
func (h *Handler) DeleteCreator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "creator id required")
		return
	}

	if err := h.store.DeleteCreator(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "creator not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).
			Str("id", sanitizeLogValue(id)).
			Msg("creator removal failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
