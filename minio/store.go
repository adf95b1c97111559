// Package minio provides an S3-compatible blob storage backend built on
// the MinIO SDK. It works against MinIO itself and any other S3 API
// implementation the SDK can talk to.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kmehta/imagebin"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for an S3-compatible object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// Store keeps image blobs as objects in a single bucket. It is safe for
// concurrent use by multiple goroutines.
type Store struct {
	client *miniogo.Client
	bucket string
}

// NewStore connects to the object store and ensures the configured
// bucket exists, creating it when missing.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &Store{client: client, bucket: cfg.Bucket}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Bucket, err)
	}

	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{})
}

// Put stores data under key with the given content type.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// Get reads the object under key and returns its bytes and stored
// content type. Returns imagebin.ErrBlobNotFound for missing objects.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, "", mapError(err, fmt.Sprintf("get object %s", key))
	}
	defer func() { _ = obj.Close() }()

	// GetObject is lazy; Stat is the first call that actually hits the
	// server, so missing keys surface here.
	stat, err := obj.Stat()
	if err != nil {
		return nil, "", mapError(err, fmt.Sprintf("stat object %s", key))
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", mapError(err, fmt.Sprintf("read object %s", key))
	}

	return data, stat.ContentType, nil
}

// Delete removes the object under key. Returns imagebin.ErrBlobNotFound
// when the object does not exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	// RemoveObject succeeds for missing keys, so check first to keep the
	// not-found contract of the interface.
	if _, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{}); err != nil {
		return mapError(err, fmt.Sprintf("stat object %s", key))
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, fmt.Sprintf("remove object %s", key))
	}

	return nil
}

// mapError translates a MinIO SDK error, surfacing missing objects as
// imagebin.ErrBlobNotFound.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	resp := miniogo.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound {
		return imagebin.ErrBlobNotFound
	}
	switch resp.Code {
	case "NoSuchBucket", "NoSuchKey":
		return imagebin.ErrBlobNotFound
	}

	return fmt.Errorf("%s: %w", msg, err)
}
