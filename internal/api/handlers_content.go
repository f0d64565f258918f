// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"net/http"
	"strconv"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/report"
)

// defaultContentLimit bounds the recent-media fetch.
const defaultContentLimit = 25

// contentItem pairs one post's engagement with the attribution row for
// its content key, when one exists.
type contentItem struct {
	ID            string             `json:"id"`
	Caption       string             `json:"caption,omitempty"`
	MediaType     string             `json:"mediaType"`
	Permalink     string             `json:"permalink"`
	Timestamp     string             `json:"timestamp"`
	LikeCount     int64              `json:"likeCount"`
	CommentsCount int64              `json:"commentsCount"`
	Attribution   *report.ContentRow `json:"attribution,omitempty"`
}

// contentResponse is the merged engagement + attribution list.
type contentResponse struct {
	OK    bool          `json:"ok"`
	Items []contentItem `json:"items"`
}

// Content handles GET /api/content. It merges the N most recent posts
// from the social account with per-content report rows, matched by
// media id or permalink. Only mounted when the integration is enabled.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		respondError(w, http.StatusNotFound, "content integration disabled")
		return
	}

	limit := defaultContentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	media, err := h.content.RecentMedia(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("recent media fetch failed")
		respondError(w, http.StatusBadGateway, "content source unavailable")
		return
	}

	rep, err := h.aggregator.BuildWindow(r.Context(), report.Window{})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("report aggregation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make(map[string]*report.ContentRow, len(rep.PerContent))
	for i := range rep.PerContent {
		rows[rep.PerContent[i].Content] = &rep.PerContent[i]
	}

	items := make([]contentItem, 0, len(media))
	for _, m := range media {
		item := contentItem{
			ID:            m.ID,
			Caption:       m.Caption,
			MediaType:     m.MediaType,
			Permalink:     m.Permalink,
			Timestamp:     m.Timestamp,
			LikeCount:     m.LikeCount,
			CommentsCount: m.CommentsCount,
		}
		// Snippets report either the media id (vid) or the post URL as
		// the content key.
		if row, ok := rows[m.ID]; ok {
			item.Attribution = row
		} else if row, ok := rows[m.Permalink]; ok {
			item.Attribution = row
		}
		items = append(items, item)
	}

	respondJSON(w, http.StatusOK, contentResponse{OK: true, Items: items})
}
