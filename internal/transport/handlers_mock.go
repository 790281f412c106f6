package transport

import (
	"context"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/gin-gonic/gin"
)

type mockImageService struct {
	uploadFn func(ctx context.Context, data *model.UploadData) (*model.UploadResult, error)
	getFn    func(ctx context.Context, id string, download bool, expiresInRaw string) (*model.GetResult, error)
	listFn   func(ctx context.Context, req *model.ListRequest) (*model.ListResult, error)
	deleteFn func(ctx context.Context, id string) (*model.DeleteResult, error)
}

func (m *mockImageService) Upload(ctx context.Context, data *model.UploadData) (*model.UploadResult, error) {
	return m.uploadFn(ctx, data)
}

func (m *mockImageService) Get(ctx context.Context, id string, download bool, expiresInRaw string) (*model.GetResult, error) {
	return m.getFn(ctx, id, download, expiresInRaw)
}

func (m *mockImageService) List(ctx context.Context, req *model.ListRequest) (*model.ListResult, error) {
	return m.listFn(ctx, req)
}

func (m *mockImageService) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	return m.deleteFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
