package service

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/UnendingLoop/ImageVault/internal/model"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	maxExpiresIn     = 604800 // 7 days, the presign ceiling
)

// validateRequiredFields collects every missing field so the caller learns
// about all of them at once, not just the first.
func validateRequiredFields(fields map[string]string, order []string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return model.NewValidationError("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseBase64Image decodes the payload, stripping a data-URI prefix
// (data:image/png;base64,...) if one is present.
func parseBase64Image(data string) ([]byte, error) {
	if i := strings.Index(data, ","); i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, model.NewValidationError("Invalid base64 image data")
	}
	return raw, nil
}

func validateImageSize(size int64, maxSize int64) error {
	if size > maxSize {
		return model.NewValidationError("Image size (%d bytes) exceeds maximum (%d bytes)", size, maxSize)
	}
	return nil
}

// fileExtension returns the lowercased extension of filename, "jpg" when
// the name carries no dot.
func fileExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i+1:])
	}
	return "jpg"
}

// contentTypeFromFilename derives the MIME type from the filename extension;
// unknown extensions fall back to image/jpeg.
func contentTypeFromFilename(filename string) string {
	if ct, ok := model.GetContentType[fileExtension(filename)]; ok {
		return ct
	}
	return model.JPEG
}

// storageKey is a pure function of (userID, imageID, extension) - the blob
// location must be re-derivable from the metadata row alone.
func storageKey(userID, imageID, filename string) string {
	return "images/" + userID + "/" + imageID + "." + fileExtension(filename)
}

// parseExpiresIn validates the raw expires_in query value before any store
// access. Empty input selects the configured default.
func parseExpiresIn(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	exp, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError("expires_in must be a valid integer")
	}
	if exp < 1 || exp > maxExpiresIn {
		return 0, model.NewValidationError("expires_in must be between 1 and %d seconds", maxExpiresIn)
	}
	return exp, nil
}

// parseLimit validates the raw limit query value; empty input means 50.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError("limit must be a valid integer")
	}
	if limit < 1 || limit > maxListLimit {
		return 0, model.NewValidationError("limit must be between 1 and %d", maxListLimit)
	}
	return limit, nil
}

// Continuation tokens are an opaque wrapper around the metadata store's
// resume key. A malformed token is caller error, never "end of results".

func encodeLastKey(cursor string) string {
	if cursor == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(cursor))
}

func decodeLastKey(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", model.NewValidationError("last_key is not a valid continuation token")
	}
	return string(raw), nil
}

// buildScanFilter composes the list predicate: owner equality AND
// membership of at least one requested tag (OR across tags).
func buildScanFilter(userID string, tags []string) func(*model.ImageRecord) bool {
	return func(r *model.ImageRecord) bool {
		if userID != "" && r.UserID != userID {
			return false
		}
		if len(tags) > 0 && !r.HasAnyTag(tags) {
			return false
		}
		return true
	}
}
