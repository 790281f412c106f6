// Package repository provides methods to work with the metadata store
package repository

import (
	"context"
	"log"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/UnendingLoop/ImageVault/internal/repository/imgbadger"
	"github.com/wb-go/wbf/config"
)

// ErrNotFound - the requested metadata row does not exist.
var ErrNotFound = imgbadger.ErrNotFound

// MetadataRepo - key-value store of ImageRecord rows keyed by image id.
// Scan walks the whole table, applies the filter store-side and hands back a
// resume cursor; an empty cursor on return means the table is exhausted.
type MetadataRepo interface {
	Put(ctx context.Context, record *model.ImageRecord) error
	Get(ctx context.Context, id string) (*model.ImageRecord, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, filter func(*model.ImageRecord) bool, limit int, cursor string) ([]model.ImageRecord, string, error)
}

func NewBadgerImageRepo(store *imgbadger.BadgerRepo) MetadataRepo {
	return store
}

// OpenWithRetries keeps trying to open the metadata DB; a cold volume mount
// can make the first attempts fail.
func OpenWithRetries(appConfig *config.Config, retryCount int, idleTime time.Duration) *imgbadger.BadgerRepo {
	path := appConfig.GetString("BADGER_PATH")
	if path == "" {
		path = "./data/metadata"
		log.Printf("Badger path is empty. Using default value %q...", path)
	}

	var store *imgbadger.BadgerRepo
	var err error

	for attempt := 0; attempt < retryCount; attempt++ {
		store, err = imgbadger.Open(path)
		if err == nil {
			break
		}
		log.Printf("Failed to open metadata DB: %s\nWaiting %v before next retry...", err, idleTime)
		time.Sleep(idleTime)
	}

	if err != nil {
		log.Fatal("Failed to open metadata DB. Exiting the app...")
	}

	return store
}
