// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"net/http"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/report"
	"github.com/MateusDN896/RastroO/internal/validation"
)

// reportQuery carries the optional date window. Both bounds default to
// all-time when absent.
type reportQuery struct {
	From string `validate:"omitempty,reportdate"`
	To   string `validate:"omitempty,reportdate"`
}

// reportResponse wraps the aggregation output in the API envelope.
type reportResponse struct {
	OK bool `json:"ok"`
	report.Report
}

// Report handles GET /api/report?from=&to=.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	query := reportQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if ve := validation.ValidateStruct(query); ve != nil {
		respondError(w, http.StatusBadRequest, ve.Message())
		return
	}

	window, err := report.ParseWindow(query.From, query.To, h.aggregator.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.aggregator.BuildWindow(r.Context(), window)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("report aggregation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, reportResponse{OK: true, Report: rep})
}
