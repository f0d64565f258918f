// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package track holds the attribution domain model: event normalization,
// creator resolution, ingestion, and status annotations.
package track

import (
	"strconv"
	"strings"
)

// Kind is the normalized event kind. Only lead and sale are ever stored.
type Kind string

const (
	KindLead Kind = "lead"
	KindSale Kind = "sale"
)

// UnknownCreator is the sentinel attributed to events whose creator
// cannot be resolved.
const UnknownCreator = "unknown"

// NoContentKey is the sentinel grouping key for events that carry no
// content identifier.
const NoContentKey = "—"

// Reserved metadata keys consumed by report grouping. Everything else in
// the bag is opaque passthrough from the capture snippet.
const (
	MetaContentID  = "vid"
	MetaContentURL = "url"
	MetaUTMSource  = "utm_source"
	MetaUTMContent = "utm_content"
	MetaPath       = "path"
)

// Metadata is the open key-value bag attached to an event.
type Metadata map[string]any

// Str returns the string value for key, or "" when absent or non-string.
func (m Metadata) Str(key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// Event is one observed occurrence, immutable once appended to the log.
type Event struct {
	// Timestamp is milliseconds since epoch, assigned at ingestion.
	Timestamp int64  `json:"ts"`
	Kind      Kind   `json:"kind"`
	Creator   string `json:"creator"`
	// Amount is set only for sale events, always non-negative.
	Amount      float64  `json:"amount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	OrderID     string   `json:"orderId,omitempty"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	Session     string   `json:"session,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Meta        Metadata `json:"meta,omitempty"`
}

// ContentKey derives the grouping key for per-content reporting.
// Priority: content id, then content URL, then the utm_content tag,
// then the no-content sentinel. The priority order is fixed so repeated
// reports over the same data stay deterministic.
func (e *Event) ContentKey() string {
	if v := e.Meta.Str(MetaContentID); v != "" {
		return v
	}
	if v := e.Meta.Str(MetaContentURL); v != "" {
		return v
	}
	if v := e.Meta.Str(MetaUTMContent); v != "" {
		return v
	}
	return NoContentKey
}

// ParseKind normalizes an inbound kind string. The legacy "hit" page-view
// kind maps to lead; visits and leads are identical downstream.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lead", "hit", "visit":
		return KindLead, true
	case "sale":
		return KindSale, true
	default:
		return "", false
	}
}

// ParseAmount coerces an inbound amount value to a non-negative float.
// Comma decimal separators are normalized to dot ("29,90" reads as 29.9).
// Unparseable or negative input yields 0, never an error; a bad amount
// must not reject an otherwise valid sale.
func ParseAmount(raw any) float64 {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 || f != f { // reject negatives and NaN
		return 0
	}
	return f
}

// NormalizeCreator trims an inbound creator string, collapsing empty or
// whitespace-only values to the unknown sentinel. Stored events never
// carry an empty creator.
func NormalizeCreator(raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return UnknownCreator
	}
	return c
}
