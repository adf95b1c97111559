package imagebin

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// MetadataRepo is the metadata store contract: point lookups, point writes,
// point deletes, and a bounded unfiltered scan.
//
// All methods accept a context for cancellation and timeout control.
// Implementations must treat ImageID as the primary key and return
// ErrNotFound from Get and Delete when no record exists for the id.
type MetadataRepo interface {
	// Get retrieves the record for an image id, or ErrNotFound.
	Get(ctx context.Context, imageID string) (ImageRecord, error)

	// Put persists a new record. Ids are generated by the caller and never
	// reused, so Put does not need upsert semantics.
	Put(ctx context.Context, rec ImageRecord) error

	// Delete removes the record for an image id, or returns ErrNotFound.
	Delete(ctx context.Context, imageID string) error

	// Scan returns up to limit records with no store-level filtering. The
	// order is backend-defined; callers sort.
	Scan(ctx context.Context, limit int) ([]ImageRecord, error)
}

// BlobStore is the object store contract: byte blobs addressed by key.
//
// Get returns ErrBlobNotFound when no blob exists under the key, so that a
// missing file is distinguishable from a missing metadata record.
type BlobStore interface {
	// Put stores data under key with the given content type, overwriting
	// any existing blob.
	Put(ctx context.Context, key, contentType string, data []byte) error

	// Get returns the blob bytes and stored content type for key, or
	// ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the blob under key, or returns ErrBlobNotFound.
	Delete(ctx context.Context, key string) error
}

// Service implements the image-hosting operations over a metadata store and
// a blob store. It keeps no other state; every call stands alone.
type Service struct {
	repo MetadataRepo
	blob BlobStore
	now  func() time.Time
}

func NewService(repo MetadataRepo, blob BlobStore) *Service {
	return &Service{
		repo: repo,
		blob: blob,
		now:  time.Now,
	}
}

// Upload validates req, stores the decoded bytes, and persists a metadata
// record. The checks run in a fixed order so each failure mode produces its
// own message: required fields, extension allow-list, base64 decoding, size
// limit. The blob write and the metadata write are not transactional; if
// the metadata write fails the blob is left orphaned.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, fmt.Errorf("upload: %w", err)
	}

	if req.OwnerID == "" || req.Filename == "" || req.ImageData == "" {
		return ImageRecord{}, fmt.Errorf("%w: missing required fields: user_id, filename and image_data are required", ErrInvalidInput)
	}

	if !IsAllowedExtension(req.Filename) {
		return ImageRecord{}, fmt.Errorf("%w: file type not allowed", ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		return ImageRecord{}, fmt.Errorf("%w: invalid image data: not valid base64", ErrInvalidInput)
	}

	if len(data) > MaxImageBytes {
		return ImageRecord{}, fmt.Errorf("%w: file too large: maximum size is %d bytes", ErrInvalidInput, MaxImageBytes)
	}

	imageID := uuid.New().String()
	ext := FileExtension(req.Filename)
	storageKey := fmt.Sprintf("%s/%s.%s", req.OwnerID, imageID, ext)
	contentType := ContentTypeForFilename(req.Filename)

	if err := s.blob.Put(ctx, storageKey, contentType, data); err != nil {
		return ImageRecord{}, fmt.Errorf("upload %s: store blob: %w", imageID, err)
	}

	now := s.now().UTC().Format(TimeFormat)
	rec := ImageRecord{
		ImageID:     imageID,
		OwnerID:     req.OwnerID,
		StorageKey:  storageKey,
		Filename:    req.Filename,
		ContentType: contentType,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		FileSize:    int64(len(data)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Put(ctx, rec); err != nil {
		// The blob stays behind; resource cleanup is out of scope.
		return ImageRecord{}, fmt.Errorf("upload %s: store metadata: %w", imageID, err)
	}

	return rec, nil
}

// List scans up to q.Limit records from the metadata store, filters and
// sorts them in memory, and reports which filters ran. Filtering happens
// after the scan limit is applied, so the result can hold fewer matches
// than exist beyond the fetched page.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list: %w", err)
	}

	if q.Limit <= 0 {
		q.Limit = DefaultScanLimit
	}

	records, err := s.repo.Scan(ctx, q.Limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list: scan metadata: %w", err)
	}

	filtered := FilterRecords(records, q)

	return ListResult{
		Images:         filtered,
		Count:          len(filtered),
		FiltersApplied: AppliedFilters(q),
	}, nil
}

// View returns the metadata record for an image id without touching the
// blob store.
func (s *Service) View(ctx context.Context, imageID string) (ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, fmt.Errorf("view: %w", err)
	}

	rec, err := s.repo.Get(ctx, imageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ImageRecord{}, ErrNotFound
		}
		return ImageRecord{}, fmt.Errorf("view %s: %w", imageID, err)
	}

	return rec, nil
}

// Fetch returns the metadata record together with the blob bytes and the
// stored content type. A record whose blob has gone missing yields
// ErrBlobNotFound, distinct from ErrNotFound for an unknown id.
func (s *Service) Fetch(ctx context.Context, imageID string) (ImageRecord, []byte, string, error) {
	rec, err := s.View(ctx, imageID)
	if err != nil {
		return ImageRecord{}, nil, "", err
	}

	data, contentType, err := s.blob.Get(ctx, rec.StorageKey)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return ImageRecord{}, nil, "", ErrBlobNotFound
		}
		return ImageRecord{}, nil, "", fmt.Errorf("fetch %s: read blob: %w", imageID, err)
	}

	if contentType == "" {
		contentType = rec.ContentType
	}

	return rec, data, contentType, nil
}

// Delete removes an image after an ownership check and returns the deleted
// record for confirmation. The blob delete is best effort: a failure there
// is logged and the metadata delete still runs, matching the documented
// cleanup policy.
func (s *Service) Delete(ctx context.Context, imageID, ownerID string) (ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, fmt.Errorf("delete: %w", err)
	}

	if ownerID == "" {
		return ImageRecord{}, fmt.Errorf("%w: user_id is required for authorization", ErrInvalidInput)
	}

	rec, err := s.repo.Get(ctx, imageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ImageRecord{}, ErrNotFound
		}
		return ImageRecord{}, fmt.Errorf("delete %s: %w", imageID, err)
	}

	if rec.OwnerID != ownerID {
		return ImageRecord{}, fmt.Errorf("%w: you can only delete your own images", ErrUnauthorized)
	}

	if err := s.blob.Delete(ctx, rec.StorageKey); err != nil {
		slog.Warn("failed to delete blob, removing metadata anyway",
			"image_id", imageID, "storage_key", rec.StorageKey, "err", err)
	}

	if err := s.repo.Delete(ctx, imageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race with another delete.
			return ImageRecord{}, ErrNotFound
		}
		return ImageRecord{}, fmt.Errorf("delete %s: remove metadata: %w", imageID, err)
	}

	return rec, nil
}
