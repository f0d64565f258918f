// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/MateusDN896/RastroO/internal/logging"
)

// maxBodySize caps request bodies. Tracking payloads are tiny; anything
// near this limit is abuse.
const maxBodySize = 64 * 1024

// errorResponse is the wire shape for every error body.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ackResponse acknowledges an accepted tracking event.
type ackResponse struct {
	OK bool  `json:"ok"`
	TS int64 `json:"ts"`
}

// sanitizeLogValue removes control characters from strings so request
// data cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error body in the fixed {ok:false, error} shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{OK: false, Error: message})
}

// respondAck acknowledges a tracking event with its server timestamp.
// Throttled events take the same shape as stored ones.
func respondAck(w http.ResponseWriter, ts int64) {
	respondJSON(w, http.StatusOK, ackResponse{OK: true, TS: ts})
}

// decodeJSON reads a bounded JSON body into dst. An empty body decodes
// to the zero value so beacon-style requests without payloads work.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// clientIP returns the request's client IP. RealIP middleware has
// already folded X-Forwarded-For into RemoteAddr; strip the port when
// one is present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
