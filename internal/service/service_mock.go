package service

import (
	"context"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/wb-go/wbf/retry"
)

// MOCK REPOSITORY

type mockRepo struct {
	putFn    func(ctx context.Context, record *model.ImageRecord) error
	getFn    func(ctx context.Context, id string) (*model.ImageRecord, error)
	deleteFn func(ctx context.Context, id string) error
	scanFn   func(ctx context.Context, filter func(*model.ImageRecord) bool, limit int, cursor string) ([]model.ImageRecord, string, error)
}

func (m *mockRepo) Put(ctx context.Context, record *model.ImageRecord) error {
	return m.putFn(ctx, record)
}

func (m *mockRepo) Get(ctx context.Context, id string) (*model.ImageRecord, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepo) Scan(ctx context.Context, filter func(*model.ImageRecord) bool, limit int, cursor string) ([]model.ImageRecord, string, error) {
	return m.scanFn(ctx, filter, limit, cursor)
}

// MOCK STORAGE

type mockStorage struct {
	putFn     func(ctx context.Context, key string, data []byte, ct string, meta map[string]string) error
	deleteFn  func(ctx context.Context, key string) error
	existsFn  func(ctx context.Context, key string) (bool, error)
	presignFn func(ctx context.Context, key string, expiry time.Duration, download bool, filename string) (string, error)
}

func (m *mockStorage) Put(ctx context.Context, key string, data []byte, ct string, meta map[string]string) error {
	return m.putFn(ctx, key, data, ct, meta)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	return m.existsFn(ctx, key)
}

func (m *mockStorage) PresignURL(ctx context.Context, key string, expiry time.Duration, download bool, filename string) (string, error) {
	return m.presignFn(ctx, key, expiry, download, filename)
}

// MOCK PUBLISHER

type mockPublisher struct {
	sendFn func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error
}

func (m *mockPublisher) SendWithRetry(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
	return m.sendFn(ctx, s, key, v)
}
