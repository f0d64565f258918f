// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindowCounterBasic(t *testing.T) {
	sw := NewSlidingWindowCounter(time.Minute, 10)

	if got := sw.Count(); got != 0 {
		t.Errorf("initial Count() = %d, want 0", got)
	}

	sw.Increment(1)
	sw.Increment(2)

	if got := sw.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestSlidingWindowCounterExpiry(t *testing.T) {
	sw := NewSlidingWindowCounter(100*time.Millisecond, 5)

	sw.Increment(5)
	if got := sw.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}

	// Wait for the entire window to elapse.
	time.Sleep(150 * time.Millisecond)

	if got := sw.Count(); got != 0 {
		t.Errorf("Count() after expiry = %d, want 0", got)
	}
}

func TestIncrementBelow(t *testing.T) {
	sw := NewSlidingWindowCounter(time.Minute, 10)

	for i := 0; i < 3; i++ {
		if !sw.IncrementBelow(3) {
			t.Fatalf("event %d rejected below limit", i+1)
		}
	}
	if sw.IncrementBelow(3) {
		t.Error("event above limit was accepted")
	}
	if got := sw.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3 (rejected event must not count)", got)
	}
}

func TestSessionThrottleCap(t *testing.T) {
	th := NewSessionThrottle(time.Minute, 10, 0)

	accepted := 0
	for i := 0; i < 11; i++ {
		if th.Allow("sess-1") {
			accepted++
		}
	}

	if accepted != 10 {
		t.Errorf("accepted %d events, want exactly 10", accepted)
	}
}

func TestSessionThrottleIndependentSessions(t *testing.T) {
	th := NewSessionThrottle(time.Minute, 2, 0)

	if !th.Allow("a") || !th.Allow("a") {
		t.Fatal("session a throttled below cap")
	}
	if th.Allow("a") {
		t.Error("session a allowed above cap")
	}
	if !th.Allow("b") {
		t.Error("session b throttled by session a's counter")
	}
}

func TestSessionThrottleEmptySession(t *testing.T) {
	th := NewSessionThrottle(time.Minute, 1, 0)

	for i := 0; i < 5; i++ {
		if !th.Allow("") {
			t.Fatal("empty session must never be throttled")
		}
	}
	if th.Len() != 0 {
		t.Errorf("empty session created a counter, Len() = %d", th.Len())
	}
}

func TestSessionThrottleWindowReset(t *testing.T) {
	th := NewSessionThrottle(100*time.Millisecond, 1, 0)

	if !th.Allow("s") {
		t.Fatal("first event throttled")
	}
	if th.Allow("s") {
		t.Error("second event in window allowed")
	}

	time.Sleep(150 * time.Millisecond)

	if !th.Allow("s") {
		t.Error("event after window expiry throttled")
	}
}

func TestSessionThrottleEviction(t *testing.T) {
	th := NewSessionThrottle(time.Minute, 10, 2)

	th.Allow("a")
	th.Allow("b")
	th.Allow("c")

	if got := th.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 after eviction", got)
	}
}

func TestCleanupInactive(t *testing.T) {
	th := NewSessionThrottle(100*time.Millisecond, 10, 0)

	th.Allow("a")
	th.Allow("b")

	time.Sleep(150 * time.Millisecond)

	if removed := th.CleanupInactive(); removed != 2 {
		t.Errorf("CleanupInactive() = %d, want 2", removed)
	}
	if th.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after cleanup", th.Len())
	}
}
