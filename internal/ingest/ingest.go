// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package ingest validates, normalizes, throttles, and appends inbound
// tracking events to the event log.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/metrics"
	"github.com/MateusDN896/RastroO/internal/ratelimit"
	"github.com/MateusDN896/RastroO/internal/store"
	"github.com/MateusDN896/RastroO/internal/track"
)

// ErrInvalidKind reports an inbound kind that does not normalize to
// lead or sale. The request is rejected with no partial writes.
var ErrInvalidKind = errors.New("invalid type")

// Request is the inbound event payload.
type Request struct {
	Kind    string `json:"kind"`
	Creator string `json:"creator,omitempty"`
	// Amount arrives as a string or number; both are accepted.
	Amount   any            `json:"amount,omitempty"`
	Currency string         `json:"currency,omitempty"`
	OrderID  string         `json:"orderId,omitempty"`
	Email    string         `json:"email,omitempty"`
	Name     string         `json:"name,omitempty"`
	Session  string         `json:"session,omitempty"`
	Meta     track.Metadata `json:"meta,omitempty"`
}

// Client carries per-request transport context the payload cannot.
type Client struct {
	// CookieCreator is the creator reference persisted in the visitor's
	// referral cookie, if any.
	CookieCreator string
	IP            string
	UserAgent     string
}

// Result is the ingestion outcome. A throttled event reports Stored
// false but is still acknowledged to the caller as success.
type Result struct {
	Timestamp int64
	Stored    bool
}

// Config holds ingestion policy knobs.
type Config struct {
	// DedupeOrderIDs rejects sales whose order ID was seen before.
	// Off by default; duplicate submissions are accepted as-is.
	DedupeOrderIDs  bool
	DefaultCurrency string
	FingerprintSalt string
}

// Ingestor normalizes and appends events.
type Ingestor struct {
	log      store.EventLog
	throttle *ratelimit.SessionThrottle
	cfg      Config
	now      func() time.Time
}

// New creates an Ingestor writing to log. throttle may be nil to
// disable the per-session cap.
func New(log store.EventLog, throttle *ratelimit.SessionThrottle, cfg Config) *Ingestor {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "BRL"
	}
	return &Ingestor{
		log:      log,
		throttle: throttle,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Ingest validates and appends one event.
//
// The flow is fixed: kind validation first (reject), then the session
// throttle (silent drop), then normalization and the append. A dropped
// event returns Stored false and no error so the HTTP layer can keep
// its success-shaped acknowledgement.
func (i *Ingestor) Ingest(ctx context.Context, req Request, client Client) (Result, error) {
	kind, ok := track.ParseKind(req.Kind)
	if !ok {
		metrics.RecordEventRejected("invalid_kind")
		return Result{}, ErrInvalidKind
	}

	ts := i.now().UnixMilli()

	// Only lead traffic is throttled. A dropped purchase confirmation
	// is worse than a noisy log, so sales always pass.
	if kind == track.KindLead && i.throttle != nil && !i.throttle.Allow(req.Session) {
		metrics.RecordEventDropped("session_throttle")
		logging.Ctx(ctx).Debug().
			Str("session", req.Session).
			Str("kind", string(kind)).
			Msg("event dropped by session throttle")
		return Result{Timestamp: ts, Stored: false}, nil
	}

	ev := track.Event{
		Timestamp: ts,
		Kind:      kind,
		Creator:   track.ResolveCreator(req.Creator, client.CookieCreator, req.Meta),
		OrderID:   req.OrderID,
		Email:     req.Email,
		Name:      req.Name,
		Session:   req.Session,
		Meta:      req.Meta,
	}

	if kind == track.KindSale {
		ev.Amount = track.ParseAmount(req.Amount)
		ev.Currency = req.Currency
		if ev.Currency == "" {
			ev.Currency = i.cfg.DefaultCurrency
		}

		if i.cfg.DedupeOrderIDs && req.OrderID != "" {
			seen, err := i.log.MarkOrder(ctx, req.OrderID)
			if err != nil {
				return Result{}, fmt.Errorf("mark order: %w", err)
			}
			if seen {
				metrics.RecordEventRejected("duplicate_order")
				return Result{}, store.ErrDuplicateOrder
			}
		}
	}

	if client.IP != "" || client.UserAgent != "" {
		ev.Fingerprint = track.Fingerprint(client.IP, client.UserAgent, i.cfg.FingerprintSalt)
	}

	if err := i.log.Append(ctx, ev); err != nil {
		return Result{}, fmt.Errorf("append event: %w", err)
	}

	metrics.RecordEventIngested(string(kind))
	logging.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("creator", ev.Creator).
		Msg("event ingested")

	return Result{Timestamp: ts, Stored: true}, nil
}
