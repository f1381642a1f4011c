// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lunara/internal/metrics"
	"github.com/tomtom215/lunara/internal/models"
)

// Key prefix for preference records: pref:<len(user)>:<user>:<food>. The
// length keeps one user's prefix from matching another id that extends it.
const preferenceKeyPrefix = "pref:"

// maxUpdateAttempts bounds optimistic retries on transaction conflicts.
const maxUpdateAttempts = 5

// BadgerPreferenceStore implements PreferenceStore on BadgerDB. Updates run
// inside a single read-write transaction; badger detects concurrent writes
// to the same key at commit and the update is retried.
type BadgerPreferenceStore struct {
	db *badger.DB
}

// OpenBadger opens a BadgerDB at path, or an in-memory instance when path
// is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// NewBadgerPreferenceStore creates a preference store backed by db.
func NewBadgerPreferenceStore(db *badger.DB) *BadgerPreferenceStore {
	return &BadgerPreferenceStore{db: db}
}

func badgerUserPrefix(userID string) []byte {
	return []byte(preferenceKeyPrefix + strconv.Itoa(len(userID)) + ":" + userID + ":")
}

func badgerPreferenceKey(userID, foodID string) []byte {
	return append(badgerUserPrefix(userID), foodID...)
}

// PreferencesForUser returns every preference of the user ordered by food id.
func (s *BadgerPreferenceStore) PreferencesForUser(ctx context.Context, userID string) ([]models.FoodPreference, error) {
	var prefs []models.FoodPreference
	prefix := badgerUserPrefix(userID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p models.FoodPreference
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode preference: %w", err)
			}
			if p.UserID != userID {
				continue
			}
			prefs = append(prefs, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// GetPreference returns ErrNotFound when the pair has no record.
func (s *BadgerPreferenceStore) GetPreference(_ context.Context, userID, foodID string) (*models.FoodPreference, error) {
	var p models.FoodPreference

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerPreferenceKey(userID, foodID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get preference: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreference reads, transforms and writes the record in one
// transaction, retrying on badger.ErrConflict.
func (s *BadgerPreferenceStore) UpdatePreference(ctx context.Context, userID, foodID string, fn PreferenceUpdateFunc) (*models.FoodPreference, error) {
	key := badgerPreferenceKey(userID, foodID)

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next *models.FoodPreference
		err := s.db.Update(func(txn *badger.Txn) error {
			var current *models.FoodPreference

			item, err := txn.Get(key)
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
			case err != nil:
				return fmt.Errorf("get preference: %w", err)
			default:
				current = &models.FoodPreference{}
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, current)
				}); err != nil {
					return fmt.Errorf("decode preference: %w", err)
				}
			}

			next, err = fn(current)
			if err != nil {
				return err
			}
			data, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("marshal preference: %w", err)
			}
			return txn.Set(key, data)
		})

		if errors.Is(err, badger.ErrConflict) {
			metrics.PreferenceConflicts.Inc()
			time.Sleep(time.Duration(attempt) * 5 * time.Millisecond)
			continue
		}
		if err != nil {
			return nil, err
		}
		return next, nil
	}

	return nil, fmt.Errorf("%w: preference %s/%s after %d attempts", ErrConflict, userID, foodID, maxUpdateAttempts)
}
