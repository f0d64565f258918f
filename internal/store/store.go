// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package store defines the persistence boundary: an append-only event
// log, the status annotation map, and the creators directory. Two
// backends exist, in-memory for tests and small installs, BadgerDB for
// durable single-node deployments.
package store

import (
	"context"
	"errors"

	"github.com/MateusDN896/RastroO/internal/track"
)

var (
	// ErrDuplicateOrder reports a sale whose order ID was already appended.
	// Only returned when order deduplication is enabled.
	ErrDuplicateOrder = errors.New("duplicate orderId")

	// ErrDuplicateHandle reports a creator handle that is already taken.
	ErrDuplicateHandle = errors.New("duplicate handle")

	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("not found")

	// ErrClosed reports an operation on a closed store.
	ErrClosed = errors.New("store closed")
)

// Creator is a registered creator in the directory.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Handle is the unique referral slug, stored without the @ prefix.
	Handle    string `json:"handle"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// EventLog is the append-only event collection. Appends are atomic with
// respect to concurrent reads: Events returns either the pre- or
// post-append state, never a half-written record.
type EventLog interface {
	// Append adds one event to the log in insertion order.
	Append(ctx context.Context, ev track.Event) error

	// Events returns all events in insertion order. The returned slice
	// is owned by the caller.
	Events(ctx context.Context) ([]track.Event, error)

	// MarkOrder records an order ID and reports whether it was seen
	// before. Used by the optional sale deduplication policy.
	MarkOrder(ctx context.Context, orderID string) (seen bool, err error)
}

// StatusLog is the manual status annotation map.
type StatusLog interface {
	// SetStatus overwrites the annotation for a normalized key.
	SetStatus(ctx context.Context, key string, status track.Status) error

	// Statuses returns the full annotation map.
	Statuses(ctx context.Context) (map[string]track.Status, error)
}

// CreatorDirectory manages registered creators.
type CreatorDirectory interface {
	// CreateCreator registers a creator. Returns ErrDuplicateHandle when
	// the handle is taken.
	CreateCreator(ctx context.Context, name, handle, notes string) (Creator, error)

	// Creators returns all registered creators ordered by creation time.
	Creators(ctx context.Context) ([]Creator, error)

	// DeleteCreator removes a creator by ID.
	DeleteCreator(ctx context.Context, id string) error
}

// Store is the full persistence surface owned by the composition root.
type Store interface {
	EventLog
	StatusLog
	CreatorDirectory

	// Close flushes and releases the backend.
	Close() error
}
