// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package track

import "strings"

// Status is a lifecycle label attached to a creator or content key.
type Status string

const (
	StatusPaid     Status = "paid"
	StatusLead     Status = "lead"
	StatusRejected Status = "rejected"
)

// ParseStatus validates an inbound status label.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPaid:
		return StatusPaid, true
	case StatusLead:
		return StatusLead, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// NormalizeStatusKey canonicalizes an annotation key: trimmed,
// leading @ stripped. "@ana" and "ana" address the same annotation.
func NormalizeStatusKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "@")
}

// EffectiveStatus merges a manual annotation with the sales aggregate
// for the key. Manual wins; otherwise the status derives from the data
// at read time: paid when the key has at least one sale, lead otherwise.
func EffectiveStatus(manual Status, sales int64) Status {
	if manual != "" {
		return manual
	}
	if sales > 0 {
		return StatusPaid
	}
	return StatusLead
}
