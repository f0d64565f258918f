// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MateusDN896/RastroO/internal/track"
)

// Memory is the in-memory Store backend. All state is lost on restart.
type Memory struct {
	mu       sync.RWMutex
	events   []track.Event
	statuses map[string]track.Status
	creators map[string]Creator
	handles  map[string]string
	orders   map[string]struct{}
	closed   bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		statuses: make(map[string]track.Status),
		creators: make(map[string]Creator),
		handles:  make(map[string]string),
		orders:   make(map[string]struct{}),
	}
}

// Append adds one event to the log.
func (m *Memory) Append(_ context.Context, ev track.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the log in insertion order.
func (m *Memory) Events(_ context.Context) ([]track.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]track.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

// MarkOrder records an order ID, reporting whether it was seen before.
func (m *Memory) MarkOrder(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	if _, seen := m.orders[orderID]; seen {
		return true, nil
	}
	m.orders[orderID] = struct{}{}
	return false, nil
}

// SetStatus overwrites the annotation for a key.
func (m *Memory) SetStatus(_ context.Context, key string, status track.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.statuses[key] = status
	return nil
}

// Statuses returns a copy of the annotation map.
func (m *Memory) Statuses(_ context.Context) (map[string]track.Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make(map[string]track.Status, len(m.statuses))
	for k, v := range m.statuses {
		out[k] = v
	}
	return out, nil
}

// CreateCreator registers a creator with a unique handle.
func (m *Memory) CreateCreator(_ context.Context, name, handle, notes string) (Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Creator{}, ErrClosed
	}
	if _, taken := m.handles[handle]; taken {
		return Creator{}, ErrDuplicateHandle
	}
	c := Creator{
		ID:        uuid.New().String(),
		Name:      name,
		Handle:    handle,
		Notes:     notes,
		CreatedAt: time.Now().UnixMilli(),
	}
	m.creators[c.ID] = c
	m.handles[handle] = c.ID
	return c, nil
}

// Creators returns all creators ordered by creation time.
func (m *Memory) Creators(_ context.Context) ([]Creator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Creator, 0, len(m.creators))
	for _, c := range m.creators {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteCreator removes a creator by ID.
func (m *Memory) DeleteCreator(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	c, ok := m.creators[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.creators, id)
	delete(m.handles, c.Handle)
	return nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
