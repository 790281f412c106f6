package worker

import (
	"context"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/model"
)

// MOCK REPOSITORY

type mockRepo struct {
	getFn func(ctx context.Context, id string) (*model.ImageRecord, error)
}

func (m *mockRepo) Put(ctx context.Context, record *model.ImageRecord) error {
	panic("not used by auditor")
}

func (m *mockRepo) Get(ctx context.Context, id string) (*model.ImageRecord, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	panic("not used by auditor")
}

func (m *mockRepo) Scan(ctx context.Context, filter func(*model.ImageRecord) bool, limit int, cursor string) ([]model.ImageRecord, string, error) {
	panic("not used by auditor")
}

// MOCK STORAGE

type mockStorage struct {
	existsFn func(ctx context.Context, key string) (bool, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Put(ctx context.Context, key string, data []byte, ct string, meta map[string]string) error {
	panic("not used by auditor")
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	return m.existsFn(ctx, key)
}

func (m *mockStorage) PresignURL(ctx context.Context, key string, expiry time.Duration, download bool, filename string) (string, error) {
	panic("not used by auditor")
}
