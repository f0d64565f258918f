// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/MateusDN896/RastroO/internal/metrics"
	"github.com/MateusDN896/RastroO/internal/track"
)

// Summary holds the global totals for a window.
type Summary struct {
	Leads   int64   `json:"leads"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// CreatorRow is one per-creator aggregate.
type CreatorRow struct {
	Creator string  `json:"creator"`
	Leads   int64   `json:"leads"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
	// ConversionRate is a rounded integer percentage (0-100) for
	// display stability. 0 when the row has no leads.
	ConversionRate int64        `json:"conversionRate"`
	Status         track.Status `json:"status"`
}

// ContentRow is one per-content aggregate, same shape keyed by the
// content identifier.
type ContentRow struct {
	Content        string       `json:"content"`
	Leads          int64        `json:"leads"`
	Sales          int64        `json:"sales"`
	Revenue        float64      `json:"revenue"`
	ConversionRate int64        `json:"conversionRate"`
	Status         track.Status `json:"status"`
}

// Report is the full aggregation output.
type Report struct {
	Summary    Summary      `json:"summary"`
	PerCreator []CreatorRow `json:"perCreator"`
	PerContent []ContentRow `json:"perContent"`
}

// accum is the per-key running aggregate during the scan.
type accum struct {
	leads   int64
	sales   int64
	revenue float64
}

// Source is the read surface the aggregator needs.
type Source interface {
	Events(ctx context.Context) ([]track.Event, error)
	Statuses(ctx context.Context) (map[string]track.Status, error)
}

// Aggregator computes reports by a single linear scan of the event log.
// Reports are read-only and recomputed per request; nothing is cached,
// so a report always reflects every append that preceded it.
type Aggregator struct {
	src Source
	loc *time.Location
}

// NewAggregator creates an Aggregator reading from src. Window bounds
// are interpreted in loc.
func NewAggregator(src Source, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{src: src, loc: loc}
}

// Location returns the timezone window bounds are interpreted in.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Build computes the report for the optional from/to date bounds.
// An empty window or a window with no events yields an all-zero
// summary and empty row lists, never an error.
func (a *Aggregator) Build(ctx context.Context, from, to string) (Report, error) {
	window, err := ParseWindow(from, to, a.loc)
	if err != nil {
		return Report{}, err
	}
	return a.BuildWindow(ctx, window)
}

// BuildWindow computes the report for a parsed window.
func (a *Aggregator) BuildWindow(ctx context.Context, window Window) (Report, error) {
	start := time.Now()

	events, err := a.src.Events(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read event log: %w", err)
	}
	statuses, err := a.src.Statuses(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read status annotations: %w", err)
	}

	var summary Summary
	byCreator := make(map[string]*accum)
	byContent := make(map[string]*accum)

	for i := range events {
		ev := &events[i]
		if !window.Contains(ev.Timestamp) {
			continue
		}

		ca := byCreator[ev.Creator]
		if ca == nil {
			ca = &accum{}
			byCreator[ev.Creator] = ca
		}
		contentKey := ev.ContentKey()
		ka := byContent[contentKey]
		if ka == nil {
			ka = &accum{}
			byContent[contentKey] = ka
		}

		switch ev.Kind {
		case track.KindSale:
			summary.Sales++
			ca.sales++
			ka.sales++
			// Amounts are normalized non-negative at ingestion; guard
			// anyway so a bad record cannot poison the sum.
			if !math.IsNaN(ev.Amount) && ev.Amount > 0 {
				summary.Revenue += ev.Amount
				ca.revenue += ev.Amount
				ka.revenue += ev.Amount
			}
		default:
			summary.Leads++
			ca.leads++
			ka.leads++
		}
	}

	rep := Report{
		Summary:    summary,
		PerCreator: make([]CreatorRow, 0, len(byCreator)),
		PerContent: make([]ContentRow, 0, len(byContent)),
	}

	for creator, acc := range byCreator {
		rep.PerCreator = append(rep.PerCreator, CreatorRow{
			Creator:        creator,
			Leads:          acc.leads,
			Sales:          acc.sales,
			Revenue:        acc.revenue,
			ConversionRate: conversionRate(acc.sales, acc.leads),
			Status:         effectiveStatus(statuses, creator, acc.sales),
		})
	}
	for content, acc := range byContent {
		rep.PerContent = append(rep.PerContent, ContentRow{
			Content:        content,
			Leads:          acc.leads,
			Sales:          acc.sales,
			Revenue:        acc.revenue,
			ConversionRate: conversionRate(acc.sales, acc.leads),
			Status:         effectiveStatus(statuses, content, acc.sales),
		})
	}

	// Fixed ordering keeps identical requests byte-identical.
	sort.Slice(rep.PerCreator, func(i, j int) bool {
		ri, rj := rep.PerCreator[i], rep.PerCreator[j]
		if ri.Revenue != rj.Revenue {
			return ri.Revenue > rj.Revenue
		}
		if ri.Leads != rj.Leads {
			return ri.Leads > rj.Leads
		}
		return ri.Creator < rj.Creator
	})
	sort.Slice(rep.PerContent, func(i, j int) bool {
		ri, rj := rep.PerContent[i], rep.PerContent[j]
		if ri.Revenue != rj.Revenue {
			return ri.Revenue > rj.Revenue
		}
		if ri.Leads != rj.Leads {
			return ri.Leads > rj.Leads
		}
		return ri.Content < rj.Content
	})

	metrics.RecordReport(time.Since(start), len(events))
	return rep, nil
}

// conversionRate is sales over leads as a rounded integer percentage.
// Zero leads defines the rate as 0, never NaN.
func conversionRate(sales, leads int64) int64 {
	if leads <= 0 {
		return 0
	}
	return int64(math.Round(float64(sales) / float64(leads) * 100))
}

// effectiveStatus merges the manual annotation for the row key with the
// status derived from its sales, at read time.
func effectiveStatus(statuses map[string]track.Status, key string, sales int64) track.Status {
	return track.EffectiveStatus(statuses[track.NormalizeStatusKey(key)], sales)
}
