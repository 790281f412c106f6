// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"strings"

	"github.com/UnendingLoop/ImageVault/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type ImageHandler struct {
	service ImageService
}

type ImageService interface {
	Upload(ctx context.Context, data *model.UploadData) (*model.UploadResult, error)
	Get(ctx context.Context, id string, download bool, expiresInRaw string) (*model.GetResult, error)
	List(ctx context.Context, req *model.ListRequest) (*model.ListResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

func NewImageHandler(svc ImageService) *ImageHandler {
	return &ImageHandler{
		service: svc,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) Upload(ctx *ginext.Context) {
	var data model.UploadData
	if err := ctx.BindJSON(&data); err != nil {
		ctx.JSON(400, map[string]string{"error": "invalid JSON in request body"})
		return
	}

	res, err := h.service.Upload(ctx.Request.Context(), &data)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h ImageHandler) ListImages(ctx *ginext.Context) {
	var req model.ListRequest

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse query-params"})
		return
	}

	res, err := h.service.List(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) GetImage(ctx *ginext.Context) {
	id := ctx.Param("id")
	download := strings.ToLower(ctx.Query("download")) == "true"
	expiresIn := ctx.Query("expires_in")

	res, err := h.service.Get(ctx.Request.Context(), id, download, expiresIn)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, err := h.service.Delete(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}
