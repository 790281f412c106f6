// Package worker contains the consistency auditor consuming lifecycle events
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/UnendingLoop/ImageVault/internal/repository"
	"github.com/UnendingLoop/ImageVault/internal/service"
	kafkago "github.com/segmentio/kafka-go"
	wbfkafka "github.com/wb-go/wbf/kafka"
)

// Auditor re-verifies the blob/metadata pairing after every lifecycle event
// and reclaims blobs the API's compensation path could not delete.
type Auditor struct {
	storage  service.ImageStorage
	repo     repository.MetadataRepo
	queue    <-chan kafkago.Message
	consumer *wbfkafka.Consumer
}

func NewAuditorInstance(strg service.ImageStorage, repo repository.MetadataRepo, q <-chan kafkago.Message, cons *wbfkafka.Consumer) *Auditor {
	return &Auditor{storage: strg, repo: repo, queue: q, consumer: cons}
}

func (a *Auditor) StartAuditor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-a.queue:
			if !ok {
				log.Println("Queue channel closed, stopping auditor...")
				return
			}
			if err := a.audit(ctx, msg.Value); err != nil {
				// leave the message uncommitted so it comes around again
				log.Printf("Audit of event %q failed: %v", string(msg.Key), err)
				continue
			}
			if err := a.consumer.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

func (a *Auditor) audit(ctx context.Context, body []byte) error {
	var event model.LifecycleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Skipping undecodable event: %v", err)
		return nil
	}

	switch event.Event {
	case model.EventUploaded:
		return a.auditUpload(ctx, &event)
	case model.EventDeleted:
		return a.auditDelete(ctx, &event)
	default:
		log.Printf("Skipping unknown event kind %q for image %q", event.Event, event.ImageID)
		return nil
	}
}

// auditUpload checks that a just-announced upload left a complete pair. A
// missing row with a present blob is a failed compensation - the blob gets
// reclaimed here.
func (a *Auditor) auditUpload(ctx context.Context, event *model.LifecycleEvent) error {
	_, err := a.repo.Get(ctx, event.ImageID)
	switch {
	case err == nil:
		exists, exErr := a.storage.Exists(ctx, event.StorageKey)
		if exErr != nil {
			return fmt.Errorf("auditor failed to probe blob %q: %w", event.StorageKey, exErr)
		}
		if !exists {
			// self-describing inconsistency: Get reports it to the client too
			log.Printf("Metadata row %q points at a missing blob %q", event.ImageID, event.StorageKey)
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return a.reclaimBlob(ctx, event.StorageKey)
	default:
		return fmt.Errorf("auditor failed to fetch metadata row %q: %w", event.ImageID, err)
	}
}

// auditDelete verifies both halves of the pair are gone and removes a
// leftover blob when the blob delete was announced but did not stick.
func (a *Auditor) auditDelete(ctx context.Context, event *model.LifecycleEvent) error {
	if _, err := a.repo.Get(ctx, event.ImageID); err == nil {
		log.Printf("Metadata row %q still present after delete event", event.ImageID)
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("auditor failed to fetch metadata row %q: %w", event.ImageID, err)
	}

	return a.reclaimBlob(ctx, event.StorageKey)
}

func (a *Auditor) reclaimBlob(ctx context.Context, key string) error {
	exists, err := a.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("auditor failed to probe blob %q: %w", key, err)
	}
	if !exists {
		return nil
	}

	if err := a.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("auditor failed to delete orphaned blob %q: %w", key, err)
	}
	log.Printf("Reclaimed orphaned blob %q", key)
	return nil
}
