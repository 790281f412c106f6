// Package imgbadger provides a BadgerDB-backed metadata store
package imgbadger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound - no row under the requested image id.
var ErrNotFound = errors.New("metadata row not found")

// BadgerRepo stores one JSON-encoded ImageRecord per key; the key is the
// image id, so scan order is lexicographic by id.
type BadgerRepo struct {
	db *badger.DB
}

func Open(path string) (*BadgerRepo, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is too chatty for our setup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &BadgerRepo{db: db}, nil
}

func (r *BadgerRepo) Close() error {
	return r.db.Close()
}

func (r *BadgerRepo) Put(ctx context.Context, record *model.ImageRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata row: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(record.ImageID), data)
	})
}

func (r *BadgerRepo) Get(ctx context.Context, id string) (*model.ImageRecord, error) {
	var record model.ImageRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *BadgerRepo) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(id))
	})
}

// Scan walks the table in key order starting at cursor (inclusive), collects
// up to limit rows that pass the filter and returns the key to resume from.
// An empty returned cursor means the table was walked to the end.
func (r *BadgerRepo) Scan(ctx context.Context, filter func(*model.ImageRecord) bool, limit int, cursor string) ([]model.ImageRecord, string, error) {
	records := make([]model.ImageRecord, 0, limit)
	next := ""

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		if cursor != "" {
			it.Seek([]byte(cursor))
		} else {
			it.Rewind()
		}

		for ; it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record model.ImageRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}

			if !filter(&record) {
				continue
			}
			records = append(records, record)

			if len(records) == limit {
				it.Next()
				if it.Valid() {
					next = string(it.Item().KeyCopy(nil))
				}
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return records, next, nil
}
