// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEventIngested(t *testing.T) {
	before := testutil.ToFloat64(EventsIngestedTotal.WithLabelValues("lead"))
	RecordEventIngested("lead")
	after := testutil.ToFloat64(EventsIngestedTotal.WithLabelValues("lead"))

	if after != before+1 {
		t.Errorf("ingested counter = %v, want %v", after, before+1)
	}
}

func TestEventLogSizeGauge(t *testing.T) {
	SetEventLogSize(40)
	RecordEventIngested("sale")
	if got := testutil.ToFloat64(EventLogSize); got != 41 {
		t.Errorf("log size gauge = %v, want 41", got)
	}
}

func TestRecordEventDropped(t *testing.T) {
	before := testutil.ToFloat64(EventsDroppedTotal.WithLabelValues("session_throttle"))
	RecordEventDropped("session_throttle")
	after := testutil.ToFloat64(EventsDroppedTotal.WithLabelValues("session_throttle"))

	if after != before+1 {
		t.Errorf("dropped counter = %v, want %v", after, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/report", "200"))
	RecordAPIRequest("GET", "/api/report", 200, 5*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/report", "200"))

	if after != before+1 {
		t.Errorf("api requests counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	done := TrackActiveRequest()
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("active gauge = %v, want %v", got, base+1)
	}

	done()
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("active gauge after done = %v, want %v", got, base)
	}
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("instagram", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("instagram")); got != 2 {
		t.Errorf("breaker state gauge = %v, want 2", got)
	}
}
