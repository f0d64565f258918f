// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"errors"
	"net/http"

	"github.com/MateusDN896/RastroO/internal/ingest"
	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/store"
)

// Track handles POST /api/track. The event kind comes from the payload.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, "")
}

// Hit handles POST /api/hit, the legacy alias that forces a visit event.
func (h *Handler) Hit(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, "hit")
}

// Lead handles POST /api/lead.
func (h *Handler) Lead(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, "lead")
}

// Sale handles POST /api/sale.
func (h *Handler) Sale(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, "sale")
}

// track decodes one tracking payload and hands it to the ingestor.
// forcedKind overrides the payload kind on the legacy alias routes.
func (h *Handler) track(w http.ResponseWriter, r *http.Request, forcedKind string) {
	var req ingest.Request
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if forcedKind != "" {
		req.Kind = forcedKind
	}

	client := ingest.Client{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if c, err := r.Cookie(creatorCookie); err == nil {
		client.CookieCreator = c.Value
	}

	result, err := h.ingestor.Ingest(r.Context(), req, client)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidKind):
			respondError(w, http.StatusBadRequest, "invalid type")
		case errors.Is(err, store.ErrDuplicateOrder):
			respondError(w, http.StatusConflict, "duplicate orderId")
		default:
			logging.Ctx(r.Context()).Error().Err(err).
				Str("kind", sanitizeLogValue(req.Kind)).
				Msg("event ingestion failed")
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondAck(w, result.Timestamp)
}
