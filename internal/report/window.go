// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package report rolls the raw event log into per-creator and
// per-content aggregates over a date window.
package report

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for report window bounds.
const DateLayout = "2006-01-02"

// Window is an inclusive calendar-date range in a fixed reference
// timezone. A missing bound leaves that side open; the zero Window
// means all time.
type Window struct {
	from    time.Time
	to      time.Time
	hasFrom bool
	hasTo   bool
}

// ParseWindow builds a Window from optional YYYY-MM-DD bounds. The from
// date starts at 00:00:00 and the to date ends at 23:59:59.999, both in
// loc, so a single-day window covers the full civil day.
func ParseWindow(from, to string, loc *time.Location) (Window, error) {
	var w Window

	if from != "" {
		t, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		w.from = t
		w.hasFrom = true
	}

	if to != "" {
		t, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		w.to = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		w.hasTo = true
	}

	if w.hasFrom && w.hasTo && w.to.Before(w.from) {
		return Window{}, fmt.Errorf("window end %q before start %q", to, from)
	}

	return w, nil
}

// Contains reports whether the epoch-millisecond timestamp falls in
// the window.
func (w Window) Contains(tsMillis int64) bool {
	if w.hasFrom && tsMillis < w.from.UnixMilli() {
		return false
	}
	if w.hasTo && tsMillis > w.to.UnixMilli() {
		return false
	}
	return true
}

// IsAllTime reports whether the window has no bounds.
func (w Window) IsAllTime() bool {
	return !w.hasFrom && !w.hasTo
}
