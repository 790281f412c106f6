package transport

import (
	"errors"

	"github.com/UnendingLoop/ImageVault/internal/model"
)

// errorCodeDefiner maps the service error taxonomy to HTTP status codes;
// anything outside the taxonomy is a plain 500.
func errorCodeDefiner(err error) int {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var storageErr *model.StorageError
	var databaseErr *model.DatabaseError

	switch {
	case errors.As(err, &validationErr):
		return 400
	case errors.As(err, &notFoundErr):
		return 404
	case errors.As(err, &storageErr),
		errors.As(err, &databaseErr):
		return 500
	default:
		return 500
	}
}
