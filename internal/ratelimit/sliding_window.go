// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package ratelimit implements the per-session ingestion throttle as a
// bucketed sliding window. This is the domain-level abuse guard; the
// HTTP layer carries its own per-IP limit on top of it.
package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowCounter counts events in a sliding window divided into
// circular buckets.
//
// Complexity:
//   - Increment: O(1)
//   - Count: O(k) where k = number of buckets
//   - Memory: O(k) per counter
type SlidingWindowCounter struct {
	mu         sync.Mutex
	buckets    []int64
	bucketSize time.Duration
	windowSize time.Duration
	numBuckets int
	current    int
	lastUpdate time.Time
}

// NewSlidingWindowCounter creates a counter over windowSize divided into
// numBuckets buckets.
func NewSlidingWindowCounter(windowSize time.Duration, numBuckets int) *SlidingWindowCounter {
	if numBuckets <= 0 {
		numBuckets = 10
	}
	if windowSize <= 0 {
		windowSize = time.Minute
	}

	return &SlidingWindowCounter{
		buckets:    make([]int64, numBuckets),
		bucketSize: windowSize / time.Duration(numBuckets),
		windowSize: windowSize,
		numBuckets: numBuckets,
		lastUpdate: time.Now(),
	}
}

// Increment adds delta to the current bucket.
func (sw *SlidingWindowCounter) Increment(delta int64) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.advance()
	sw.buckets[sw.current] += delta
}

// Count returns the sum of all buckets in the window.
func (sw *SlidingWindowCounter) Count() int64 {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.advance()

	var total int64
	for _, count := range sw.buckets {
		total += count
	}
	return total
}

// IncrementBelow atomically increments the counter only when the window
// total is below limit. Reports whether the increment was applied.
func (sw *SlidingWindowCounter) IncrementBelow(limit int64) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.advance()

	var total int64
	for _, count := range sw.buckets {
		total += count
	}
	if total >= limit {
		return false
	}
	sw.buckets[sw.current]++
	return true
}

// advance moves the window forward based on elapsed time.
// Must be called with the lock held.
func (sw *SlidingWindowCounter) advance() {
	now := time.Now()
	bucketsElapsed := int(now.Sub(sw.lastUpdate) / sw.bucketSize)

	if bucketsElapsed <= 0 {
		return
	}

	if bucketsElapsed >= sw.numBuckets {
		// Entire window has elapsed.
		for i := range sw.buckets {
			sw.buckets[i] = 0
		}
		sw.current = 0
	} else {
		for i := 0; i < bucketsElapsed; i++ {
			sw.current = (sw.current + 1) % sw.numBuckets
			sw.buckets[sw.current] = 0
		}
	}

	sw.lastUpdate = now
}

// SessionThrottle caps qualifying events per session within a sliding
// window. Counters are created on demand and capped at maxSessions to
// bound memory; when full, an arbitrary counter is evicted.
type SessionThrottle struct {
	mu          sync.Mutex
	counters    map[string]*SlidingWindowCounter
	window      time.Duration
	numBuckets  int
	maxEvents   int64
	maxSessions int
}

// NewSessionThrottle creates a throttle allowing maxEvents per session
// per window.
func NewSessionThrottle(window time.Duration, maxEvents, maxSessions int) *SessionThrottle {
	if maxSessions <= 0 {
		maxSessions = 100000
	}
	return &SessionThrottle{
		counters:    make(map[string]*SlidingWindowCounter),
		window:      window,
		numBuckets:  10,
		maxEvents:   int64(maxEvents),
		maxSessions: maxSessions,
	}
}

// Allow reports whether the session may emit one more event, counting
// it when allowed. An empty session ID is never throttled; without a
// stable session there is nothing meaningful to count against.
func (t *SessionThrottle) Allow(sessionID string) bool {
	if sessionID == "" {
		return true
	}

	t.mu.Lock()
	counter, ok := t.counters[sessionID]
	if !ok {
		if len(t.counters) >= t.maxSessions {
			for key := range t.counters {
				delete(t.counters, key)
				break
			}
		}
		counter = NewSlidingWindowCounter(t.window, t.numBuckets)
		t.counters[sessionID] = counter
	}
	t.mu.Unlock()

	return counter.IncrementBelow(t.maxEvents)
}

// Len returns the number of tracked sessions.
func (t *SessionThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counters)
}

// CleanupInactive drops counters with no events in the window.
// Returns the number removed.
func (t *SessionThrottle) CleanupInactive() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, counter := range t.counters {
		if counter.Count() == 0 {
			delete(t.counters, key)
			removed++
		}
	}
	return removed
}
