// Package imagebin implements a minimal image-hosting service: upload,
// list/filter, view/download, and delete, backed by a blob store for image
// bytes and a metadata store for structured records.
//
// # Key Components
//
//   - Service: the image operations over two injected stores
//   - MetadataRepo: interface for metadata persistence (PostgreSQL, SQLite)
//   - BlobStore: interface for image bytes (local filesystem, MinIO)
//
// # Example Usage
//
//	service := imagebin.NewService(repo, blobs)
//
//	rec, err := service.Upload(ctx, imagebin.UploadRequest{
//	    OwnerID:   "user123",
//	    Filename:  "cat.png",
//	    ImageData: base64Payload,
//	})
//
//	result, err := service.List(ctx, imagebin.ListQuery{OwnerID: "user123"})
//
// Listing deliberately scans up to a limit before filtering, so a filtered
// page can hold fewer matches than exist in the store. See ListQuery.
//
// The http package exposes the REST API; the database package provides the
// metadata backends and the filesystem and minio packages the blob
// backends.
package imagebin
