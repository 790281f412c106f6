// Package service provides business-logic for the app
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/UnendingLoop/ImageVault/internal/mwlogger"
	"github.com/UnendingLoop/ImageVault/internal/repository"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

// Config - read-only service settings, fixed at process start.
type Config struct {
	MaxImageSize int64 // bytes
	URLTTL       int   // seconds, default presign lifetime
}

type ImageService struct {
	cfg       Config
	repo      repository.MetadataRepo
	publisher EventPublisher
	storage   ImageStorage
}

func NewImageService(cfg Config, repo repository.MetadataRepo, pub EventPublisher, strg ImageStorage) *ImageService {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = 10 << 20
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 3600
	}
	return &ImageService{
		cfg:       cfg,
		repo:      repo,
		publisher: pub,
		storage:   strg,
	}
}

// EventPublisher - контракт для работы с очередью
type EventPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// ImageStorage - контракт для работы с хранилищем
type ImageStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string, meta map[string]string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PresignURL(ctx context.Context, key string, expiry time.Duration, download bool, filename string) (string, error)
}

// Стратегия ретрая отправки в очередь - можно потом вынести значения в конфиг/env
var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    3 * time.Second,
	Backoff:  1.5,
}

// Upload writes the blob first, then the metadata row. A failed blob write
// aborts before any row exists; a failed row write triggers a best-effort
// compensating blob delete, and the caller always sees the row-write error.
func (s ImageService) Upload(ctx context.Context, data *model.UploadData) (*model.UploadResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if err := validateRequiredFields(map[string]string{
		"user_id":    data.UserID,
		"filename":   data.Filename,
		"image_data": data.ImageData,
	}, []string{"user_id", "filename", "image_data"}); err != nil {
		return nil, err
	}

	raw, err := parseBase64Image(data.ImageData)
	if err != nil {
		return nil, err
	}
	if err := validateImageSize(int64(len(raw)), s.cfg.MaxImageSize); err != nil {
		return nil, err
	}

	imageID := uuid.New().String()
	key := storageKey(data.UserID, imageID, data.Filename)
	contentType := contentTypeFromFilename(data.Filename)

	// кладем блоб в хранилище - до этого момента ничего не записано
	blobMeta := map[string]string{
		"user_id":           data.UserID,
		"image_id":          imageID,
		"original_filename": data.Filename,
	}
	if err := s.storage.Put(ctx, key, raw, contentType, blobMeta); err != nil {
		logger.Error().Err(err).Msg("Failed to save image in Storage")
		return nil, &model.StorageError{Op: "upload", Err: err}
	}

	record := &model.ImageRecord{
		ImageID:     imageID,
		UserID:      data.UserID,
		Filename:    data.Filename,
		StorageKey:  key,
		ContentType: contentType,
		Size:        int64(len(raw)),
		UploadDate:  time.Now().UTC(),
		Tags:        data.Tags,
		Description: data.Description,
		Width:       data.Width,
		Height:      data.Height,
	}

	// шлем строку метаданных в базу; при неудаче откатываем блоб
	if err := s.repo.Put(ctx, record); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Metadata save failed for image %q, rolling back blob", imageID))
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			// компенсация не удалась - блоб осиротел, но наружу идет исходная ошибка
			logger.Error().Err(delErr).Msg(fmt.Sprintf("Rollback failed, orphaned blob at %q", key))
		}
		return nil, &model.DatabaseError{Op: "save", Err: err}
	}

	url, err := s.storage.PresignURL(ctx, key, time.Duration(s.cfg.URLTTL)*time.Second, false, "")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to presign URL for fresh upload")
		return nil, &model.StorageError{Op: "presign", Err: err}
	}

	s.publishEvent(ctx, model.EventUploaded, imageID, key)

	return &model.UploadResult{
		Message:  "Image uploaded successfully",
		ImageID:  imageID,
		ImageURL: url,
		Metadata: record,
	}, nil
}

// Get fetches the metadata row and re-verifies the blob actually exists, so a
// row pointing at a missing blob surfaces as a distinct not-found instead of
// handing out a dead URL.
func (s ImageService) Get(ctx context.Context, imageID string, download bool, expiresInRaw string) (*model.GetResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	expiresIn, err := parseExpiresIn(expiresInRaw, s.cfg.URLTTL)
	if err != nil {
		return nil, err
	}

	record, err := s.fetchRecord(ctx, imageID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, record.StorageKey)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to check blob existence for image %q", imageID))
		return nil, &model.StorageError{Op: "check", Err: err}
	}
	if !exists {
		logger.Error().Msg(fmt.Sprintf("Metadata row for image %q points at a missing blob", imageID))
		return nil, &model.NotFoundError{Resource: "Image file in storage", ID: imageID}
	}

	filename := ""
	if download {
		filename = record.Filename
	}
	url, err := s.storage.PresignURL(ctx, record.StorageKey, time.Duration(expiresIn)*time.Second, download, filename)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to presign URL for image %q", imageID))
		return nil, &model.StorageError{Op: "presign", Err: err}
	}

	return &model.GetResult{
		ImageID:     imageID,
		Metadata:    record,
		DownloadURL: url,
		ExpiresIn:   expiresIn,
	}, nil
}

// List scans the metadata store with a composed predicate: owner equality
// AND-ed with an any-of tag match. URLs are presigned per call, never cached.
func (s ImageService) List(ctx context.Context, req *model.ListRequest) (*model.ListResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	limit, err := parseLimit(req.Limit)
	if err != nil {
		return nil, err
	}
	cursor, err := decodeLastKey(req.LastKey)
	if err != nil {
		return nil, err
	}
	filter := buildScanFilter(req.UserID, model.SplitTags(req.Tags))

	records, next, err := s.repo.Scan(ctx, filter, limit, cursor)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to scan metadata rows")
		return nil, &model.DatabaseError{Op: "list", Err: err}
	}

	images := make([]model.ImageWithURL, 0, len(records))
	for i := range records {
		url, err := s.storage.PresignURL(ctx, records[i].StorageKey, time.Duration(s.cfg.URLTTL)*time.Second, false, "")
		if err != nil {
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to presign URL for image %q", records[i].ImageID))
			return nil, &model.StorageError{Op: "presign", Err: err}
		}
		images = append(images, model.ImageWithURL{ImageRecord: records[i], ImageURL: url})
	}

	return &model.ListResult{
		Images:  images,
		Count:   len(images),
		LastKey: encodeLastKey(next),
	}, nil
}

// Delete removes the blob first, then the row. A failed row delete leaves a
// row pointing at a missing blob, which a later Get detects - preferable to a
// reachable-by-nothing blob.
func (s ImageService) Delete(ctx context.Context, imageID string) (*model.DeleteResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	record, err := s.fetchRecord(ctx, imageID)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Delete(ctx, record.StorageKey); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to delete blob for image %q", imageID))
		return nil, &model.StorageError{Op: "delete", Err: err}
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to delete metadata row for image %q", imageID))
		return nil, &model.DatabaseError{Op: "delete", Err: err}
	}

	s.publishEvent(ctx, model.EventDeleted, imageID, record.StorageKey)

	return &model.DeleteResult{Message: "Image deleted successfully", ImageID: imageID}, nil
}

func (s ImageService) fetchRecord(ctx context.Context, imageID string) (*model.ImageRecord, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	record, err := s.repo.Get(ctx, imageID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, &model.NotFoundError{Resource: "Image", ID: imageID}
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch metadata row for image %q", imageID))
			return nil, &model.DatabaseError{Op: "get", Err: err}
		}
	}
	return record, nil
}

// publishEvent is best-effort: the store pair is already durable, so a broker
// hiccup must not fail the client request.
func (s ImageService) publishEvent(ctx context.Context, event, imageID, key string) {
	if s.publisher == nil {
		return
	}
	logger := mwlogger.LoggerFromContext(ctx)

	body, err := json.Marshal(model.LifecycleEvent{Event: event, ImageID: imageID, StorageKey: key})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal lifecycle event")
		return
	}
	if err := s.publisher.SendWithRetry(ctx, retryStrategy, []byte(imageID), body); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish %q event for image %q", event, imageID))
	}
}
