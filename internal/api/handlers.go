// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"context"

	"github.com/MateusDN896/RastroO/internal/ingest"
	"github.com/MateusDN896/RastroO/internal/instagram"
	"github.com/MateusDN896/RastroO/internal/report"
	"github.com/MateusDN896/RastroO/internal/store"
)

// creatorCookie is the referral cookie the snippet persists for ~90
// days. Its value is used as the creator fallback when a tracking
// payload carries no explicit creator.
const creatorCookie = "rastro_creator"

// ContentSource resolves recent posts with engagement counts. Nil when
// the social integration is disabled.
type ContentSource interface {
	RecentMedia(ctx context.Context, limit int) ([]instagram.MediaItem, error)
}

// Handler holds the API handler dependencies.
type Handler struct {
	ingestor   *ingest.Ingestor
	aggregator *report.Aggregator
	store      store.Store
	content    ContentSource
}

// NewHandler creates an API handler. content may be nil.
func NewHandler(ingestor *ingest.Ingestor, aggregator *report.Aggregator, st store.Store, content ContentSource) *Handler {
	return &Handler{
		ingestor:   ingestor,
		aggregator: aggregator,
		store:      st,
		content:    content,
	}
}
