package main

import (
	"context"

	"github.com/UnendingLoop/ImageVault/internal/model"
)

type ImageAPIService interface {
	Upload(ctx context.Context, data *model.UploadData) (*model.UploadResult, error)
	Get(ctx context.Context, id string, download bool, expiresInRaw string) (*model.GetResult, error)
	List(ctx context.Context, req *model.ListRequest) (*model.ListResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}
