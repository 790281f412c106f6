// Package model provides data-structs for internal app-usage
package model

import (
	"fmt"
	"strings"
	"time"
)

// ImageRecord - canonical metadata row for one stored image.
// Optional fields use pointers so "absent" is distinguishable from zero.
type ImageRecord struct {
	ImageID     string    `json:"image_id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"upload_date"`
	Tags        string    `json:"tags,omitempty"`
	Description *string   `json:"description,omitempty"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
}

// TagSet splits the comma-joined tags field into trimmed non-empty values.
func (r *ImageRecord) TagSet() []string {
	return SplitTags(r.Tags)
}

// HasAnyTag reports whether the record carries at least one of the wanted tags.
func (r *ImageRecord) HasAnyTag(wanted []string) bool {
	own := r.TagSet()
	for _, w := range wanted {
		for _, t := range own {
			if t == w {
				return true
			}
		}
	}
	return false
}

// SplitTags parses a comma-separated tag string into a set of trimmed values.
func SplitTags(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

//---------------------

// UploadData - raw upload request as it comes from the transport layer.
type UploadData struct {
	UserID      string  `json:"user_id"`
	Filename    string  `json:"filename"`
	ImageData   string  `json:"image_data"` // base64, optionally with data-URI prefix
	Tags        string  `json:"tags,omitempty"`
	Description *string `json:"description,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
}

type UploadResult struct {
	Message  string       `json:"message"`
	ImageID  string       `json:"image_id"`
	ImageURL string       `json:"image_url"`
	Metadata *ImageRecord `json:"metadata"`
}

// ListRequest - raw list query; Limit stays a string so the service can
// report non-numeric input as a validation failure.
type ListRequest struct {
	UserID  string `form:"user_id"`
	Tags    string `form:"tags"`
	Limit   string `form:"limit"`
	LastKey string `form:"last_key"`
}

type ImageWithURL struct {
	ImageRecord
	ImageURL string `json:"image_url"`
}

type ListResult struct {
	Images  []ImageWithURL `json:"images"`
	Count   int            `json:"count"`
	LastKey string         `json:"last_evaluated_key,omitempty"`
}

type GetResult struct {
	ImageID     string       `json:"image_id"`
	Metadata    *ImageRecord `json:"metadata"`
	DownloadURL string       `json:"download_url"`
	ExpiresIn   int          `json:"expires_in"`
}

type DeleteResult struct {
	Message string `json:"message"`
	ImageID string `json:"image_id"`
}

//-------------------

// Error taxonomy. Every failure the service returns is one of these four
// kinds so the transport layer can map it to a status code with errors.As.

// ValidationError - bad caller input, returned before any store access. 400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError - the metadata row or the blob itself is absent. 404
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// StorageError - a blob-store call failed; Op names the failed operation. 500
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DatabaseError - a metadata-store call failed; Op names the failed operation. 500
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
	WEBP = "image/webp"
)

// GetContentType maps a lowercased filename extension to its MIME type.
var GetContentType = map[string]string{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"gif":  GIF,
	"webp": WEBP,
}

//--------------------

// Lifecycle events published to the audit topic after a store pair changes.
const (
	EventUploaded = "uploaded"
	EventDeleted  = "deleted"
)

// LifecycleEvent - message body for the audit topic; key is the image id.
type LifecycleEvent struct {
	Event      string `json:"event"`
	ImageID    string `json:"image_id"`
	StorageKey string `json:"storage_key"`
}
