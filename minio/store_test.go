package minio

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kmehta/imagebin"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

var _ imagebin.BlobStore = (*Store)(nil)

func TestMapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, mapError(nil, "get object"))
	})

	t.Run("404 becomes blob not found", func(t *testing.T) {
		err := miniogo.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NoSuchKey",
			Message:    "The specified key does not exist.",
		}
		assert.ErrorIs(t, mapError(err, "get object"), imagebin.ErrBlobNotFound)
	})

	t.Run("missing bucket becomes blob not found", func(t *testing.T) {
		err := miniogo.ErrorResponse{
			Code:    "NoSuchBucket",
			Message: "The specified bucket does not exist.",
		}
		assert.ErrorIs(t, mapError(err, "get object"), imagebin.ErrBlobNotFound)
	})

	t.Run("other errors keep the message", func(t *testing.T) {
		err := mapError(errors.New("connection refused"), "get object foo.png")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, imagebin.ErrBlobNotFound)
		assert.Contains(t, err.Error(), "get object foo.png")
	})

	t.Run("access denied is not not-found", func(t *testing.T) {
		err := miniogo.ErrorResponse{
			StatusCode: http.StatusForbidden,
			Code:       "AccessDenied",
		}
		assert.NotErrorIs(t, mapError(err, "get object"), imagebin.ErrBlobNotFound)
	})
}
