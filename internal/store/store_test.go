// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/MateusDN896/RastroO/internal/track"
)

// backends runs a subtest against both store implementations.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		s := NewMemory()
		defer s.Close()
		fn(t, s)
	})

	t.Run("badger", func(t *testing.T) {
		s, err := OpenBadger(t.TempDir())
		if err != nil {
			t.Fatalf("OpenBadger failed: %v", err)
		}
		defer s.Close()
		fn(t, s)
	})
}

func TestAppendAndEvents(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		evs := []track.Event{
			{Timestamp: 1, Kind: track.KindLead, Creator: "@ana"},
			{Timestamp: 2, Kind: track.KindSale, Creator: "@ana", Amount: 29.9, Currency: "BRL"},
			{Timestamp: 3, Kind: track.KindLead, Creator: track.UnknownCreator},
		}
		for _, ev := range evs {
			if err := s.Append(ctx, ev); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}

		got, err := s.Events(ctx)
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		if len(got) != len(evs) {
			t.Fatalf("got %d events, want %d", len(got), len(evs))
		}
		for i := range evs {
			if got[i].Timestamp != evs[i].Timestamp {
				t.Errorf("event %d out of order: ts %d, want %d", i, got[i].Timestamp, evs[i].Timestamp)
			}
			if got[i].Kind != evs[i].Kind {
				t.Errorf("event %d kind = %q, want %q", i, got[i].Kind, evs[i].Kind)
			}
			if got[i].Creator != evs[i].Creator {
				t.Errorf("event %d creator = %q, want %q", i, got[i].Creator, evs[i].Creator)
			}
		}
		if got[1].Amount != 29.9 {
			t.Errorf("sale amount = %v, want 29.9", got[1].Amount)
		}
	})
}

func TestEventsEmptyLog(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		got, err := s.Events(context.Background())
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d events from empty log, want 0", len(got))
		}
	})
}

func TestEventMetadataRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		ev := track.Event{
			Timestamp: 10,
			Kind:      track.KindLead,
			Creator:   "@bia",
			Meta: track.Metadata{
				"vid":        "reel-42",
				"utm_source": "@bia",
				"custom":     "x",
			},
		}
		if err := s.Append(ctx, ev); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		got, err := s.Events(ctx)
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d events, want 1", len(got))
		}
		if key := got[0].ContentKey(); key != "reel-42" {
			t.Errorf("ContentKey() = %q, want reel-42", key)
		}
		if got[0].Meta.Str("custom") != "x" {
			t.Errorf("passthrough metadata lost: %v", got[0].Meta)
		}
	})
}

func TestMarkOrder(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		seen, err := s.MarkOrder(ctx, "ord-1")
		if err != nil {
			t.Fatalf("MarkOrder failed: %v", err)
		}
		if seen {
			t.Error("first MarkOrder reported seen")
		}

		seen, err = s.MarkOrder(ctx, "ord-1")
		if err != nil {
			t.Fatalf("MarkOrder failed: %v", err)
		}
		if !seen {
			t.Error("second MarkOrder did not report seen")
		}

		seen, err = s.MarkOrder(ctx, "ord-2")
		if err != nil {
			t.Fatalf("MarkOrder failed: %v", err)
		}
		if seen {
			t.Error("distinct order reported seen")
		}
	})
}

func TestStatuses(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if err := s.SetStatus(ctx, "ana", track.StatusRejected); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		if err := s.SetStatus(ctx, "bia", track.StatusPaid); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		// Overwrite wins.
		if err := s.SetStatus(ctx, "ana", track.StatusPaid); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}

		got, err := s.Statuses(ctx)
		if err != nil {
			t.Fatalf("Statuses failed: %v", err)
		}
		if got["ana"] != track.StatusPaid {
			t.Errorf("ana status = %q, want paid", got["ana"])
		}
		if got["bia"] != track.StatusPaid {
			t.Errorf("bia status = %q, want paid", got["bia"])
		}
	})
}

func TestCreators(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		ana, err := s.CreateCreator(ctx, "Ana", "ana", "top of funnel")
		if err != nil {
			t.Fatalf("CreateCreator failed: %v", err)
		}
		if ana.ID == "" {
			t.Error("creator ID not assigned")
		}

		if ana.Notes != "top of funnel" {
			t.Errorf("Notes = %q, want %q", ana.Notes, "top of funnel")
		}

		if _, err := s.CreateCreator(ctx, "Other Ana", "ana", ""); !errors.Is(err, ErrDuplicateHandle) {
			t.Errorf("duplicate handle error = %v, want ErrDuplicateHandle", err)
		}

		if _, err := s.CreateCreator(ctx, "Bia", "bia", ""); err != nil {
			t.Fatalf("CreateCreator failed: %v", err)
		}

		all, err := s.Creators(ctx)
		if err != nil {
			t.Fatalf("Creators failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("got %d creators, want 2", len(all))
		}

		if err := s.DeleteCreator(ctx, ana.ID); err != nil {
			t.Fatalf("DeleteCreator failed: %v", err)
		}
		if err := s.DeleteCreator(ctx, ana.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}

		// Handle is free again after deletion.
		if _, err := s.CreateCreator(ctx, "Ana Again", "ana", ""); err != nil {
			t.Errorf("reusing freed handle failed: %v", err)
		}
	})
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	if err := s.Append(ctx, track.Event{Timestamp: 1, Kind: track.KindSale, Creator: "@ana", Amount: 10}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.SetStatus(ctx, "ana", track.StatusRejected); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	events, err := s2.Events(ctx)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 || events[0].Amount != 10 {
		t.Errorf("events after reopen = %+v, want one sale of 10", events)
	}

	statuses, err := s2.Statuses(ctx)
	if err != nil {
		t.Fatalf("Statuses failed: %v", err)
	}
	if statuses["ana"] != track.StatusRejected {
		t.Errorf("status after reopen = %q, want rejected", statuses["ana"])
	}

	// New appends keep ordering after the sequence is reacquired.
	if err := s2.Append(ctx, track.Event{Timestamp: 2, Kind: track.KindLead, Creator: "@ana"}); err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}
	events, err = s2.Events(ctx)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 || events[1].Timestamp != 2 {
		t.Errorf("ordering lost after reopen: %+v", events)
	}
}

func TestMemoryClosed(t *testing.T) {
	s := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := s.Append(context.Background(), track.Event{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Append after close error = %v, want ErrClosed", err)
	}
	if _, err := s.Events(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Events after close error = %v, want ErrClosed", err)
	}
}
