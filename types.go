package imagebin

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxImageBytes is the largest decoded payload accepted by Upload.
const MaxImageBytes = 10 << 20 // 10 MiB

// DefaultScanLimit caps how many records List fetches from the metadata
// store when no limit is supplied.
const DefaultScanLimit = 50

// TimeFormat is the timestamp layout stored in ImageRecord. RFC3339 in UTC
// sorts lexically in chronological order, which the date-range filters in
// List rely on.
const TimeFormat = time.RFC3339

// ImageRecord is the metadata entry kept for every uploaded image.
// ImageID is assigned at upload time and never changes; StorageKey points
// at the blob in the object store for the record's whole lifetime.
type ImageRecord struct {
	ImageID     string   `json:"image_id"`
	OwnerID     string   `json:"owner_id"`
	StorageKey  string   `json:"storage_key"`
	Filename    string   `json:"filename"`
	ContentType string   `json:"content_type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	FileSize    int64    `json:"file_size"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// UploadRequest carries the raw input of an upload. ImageData is still
// base64 encoded; Upload decodes it.
type UploadRequest struct {
	OwnerID     string
	Filename    string
	ImageData   string
	Title       string
	Description string
	Tags        []string
}

// ListQuery holds the optional listing filters. Limit bounds the number of
// records fetched from the store before any filter runs, not the number of
// matches returned.
type ListQuery struct {
	OwnerID  string
	Tags     string
	DateFrom string
	DateTo   string
	Title    string
	Limit    int
}

// ListResult is the outcome of List: matching records newest first, their
// count, and an echo of the filters that were applied.
type ListResult struct {
	Images         []ImageRecord     `json:"images"`
	Count          int               `json:"count"`
	FiltersApplied map[string]string `json:"filters_applied"`
}

// Tables holds configurable table names for metadata storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Metadata string `mapstructure:"metadata"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Metadata == "" {
		return errors.New("validate tables: metadata table name cannot be empty")
	}

	if !IsValidTableName(t.Metadata) {
		return fmt.Errorf("validate tables: invalid metadata table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Metadata)
	}

	return nil
}

// allowedExtensions is the upload allow-list, keyed by lowercase extension
// without the dot.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

var contentTypeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// FileExtension returns the lowercase extension of filename without the
// leading dot, or "" if there is none.
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExtension reports whether filename carries one of the accepted
// image extensions.
func IsAllowedExtension(filename string) bool {
	return allowedExtensions[FileExtension(filename)]
}

// ContentTypeForFilename maps a filename extension to its MIME type,
// falling back to application/octet-stream for anything unrecognized.
func ContentTypeForFilename(filename string) string {
	if ct, ok := contentTypeByExt[FileExtension(filename)]; ok {
		return ct
	}
	return "application/octet-stream"
}
