// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/track"
)

// Key prefixes for the record families sharing one BadgerDB.
const (
	prefixEvent   = "event:"
	prefixStatus  = "status:"
	prefixCreator = "creator:"
	prefixHandle  = "handle:"
	prefixOrder   = "order:"

	eventSeqKey = "seq:event"
)

// Badger is the durable Store backend. Events are keyed by a
// monotonically increasing sequence so prefix iteration yields
// insertion order.
type Badger struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadger opens (or creates) the store at path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	// Badger's default logger is noisy; everything routes through zerolog.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	seq, err := db.GetSequence([]byte(eventSeqKey), 128)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open event sequence: %w", err)
	}

	logging.Info().Str("path", path).Msg("badger store opened")
	return &Badger{db: db, seq: seq}, nil
}

// Append adds one event to the log under the next sequence number.
func (b *Badger) Append(_ context.Context, ev track.Event) error {
	n, err := b.seq.Next()
	if err != nil {
		return fmt.Errorf("next event sequence: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%020d", prefixEvent, n))
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Events returns all events in insertion order.
func (b *Badger) Events(_ context.Context) ([]track.Event, error) {
	var events []track.Event
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixEvent)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var ev track.Event
				if err := json.Unmarshal(val, &ev); err != nil {
					return fmt.Errorf("unmarshal event: %w", err)
				}
				events = append(events, ev)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// MarkOrder records an order ID, reporting whether it was seen before.
func (b *Badger) MarkOrder(_ context.Context, orderID string) (bool, error) {
	key := []byte(prefixOrder + orderID)
	seen := false
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			seen = true
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return txn.Set(key, []byte{1})
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("mark order: %w", err)
	}
	return seen, nil
}

// SetStatus overwrites the annotation for a key.
func (b *Badger) SetStatus(_ context.Context, key string, status track.Status) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixStatus+key), []byte(status))
	})
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Statuses returns the full annotation map.
func (b *Badger) Statuses(_ context.Context) (map[string]track.Status, error) {
	statuses := make(map[string]track.Status)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixStatus)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(prefixStatus):])
			err := item.Value(func(val []byte) error {
				statuses[key] = track.Status(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan statuses: %w", err)
	}
	return statuses, nil
}

// CreateCreator registers a creator with a unique handle. The handle
// index entry and the creator record are written in one transaction.
func (b *Badger) CreateCreator(_ context.Context, name, handle, notes string) (Creator, error) {
	c := Creator{
		ID:        uuid.New().String(),
		Name:      name,
		Handle:    handle,
		Notes:     notes,
		CreatedAt: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(c)
	if err != nil {
		return Creator{}, fmt.Errorf("marshal creator: %w", err)
	}

	handleKey := []byte(prefixHandle + handle)
	err = b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(handleKey)
		switch {
		case err == nil:
			return ErrDuplicateHandle
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}
		if err := txn.Set(handleKey, []byte(c.ID)); err != nil {
			return err
		}
		return txn.Set([]byte(prefixCreator+c.ID), data)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateHandle) {
			return Creator{}, ErrDuplicateHandle
		}
		return Creator{}, fmt.Errorf("create creator: %w", err)
	}
	return c, nil
}

// Creators returns all creators ordered by creation time.
func (b *Badger) Creators(_ context.Context) ([]Creator, error) {
	var creators []Creator
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixCreator)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var c Creator
				if err := json.Unmarshal(val, &c); err != nil {
					return fmt.Errorf("unmarshal creator: %w", err)
				}
				creators = append(creators, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan creators: %w", err)
	}

	sort.Slice(creators, func(i, j int) bool {
		if creators[i].CreatedAt != creators[j].CreatedAt {
			return creators[i].CreatedAt < creators[j].CreatedAt
		}
		return creators[i].ID < creators[j].ID
	})
	return creators, nil
}

// DeleteCreator removes a creator and its handle index entry.
func (b *Badger) DeleteCreator(_ context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixCreator + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var c Creator
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		}); err != nil {
			return err
		}

		if err := txn.Delete([]byte(prefixHandle + c.Handle)); err != nil {
			return err
		}
		return txn.Delete([]byte(prefixCreator + id))
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete creator: %w", err)
	}
	return nil
}

// Close releases the sequence and closes the database.
func (b *Badger) Close() error {
	if err := b.seq.Release(); err != nil {
		logging.Warn().Err(err).Msg("release event sequence")
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
