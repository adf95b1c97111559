package e2e_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/kmehta/imagebin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Response envelopes as the server sends them.
type uploadResp struct {
	Message  string               `json:"message"`
	ImageID  string               `json:"image_id"`
	Metadata imagebin.ImageRecord `json:"metadata"`
}

type viewResp struct {
	Metadata    imagebin.ImageRecord `json:"metadata"`
	ImageData   string               `json:"image_data"`
	ContentType string               `json:"content_type"`
}

type deleteResp struct {
	Message         string               `json:"message"`
	ImageID         string               `json:"image_id"`
	DeletedMetadata imagebin.ImageRecord `json:"deleted_metadata"`
}

type errorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// uploadImage posts an image and returns the parsed response.
func uploadImage(t *testing.T, client *http.Client, baseURL string, body map[string]any) uploadResp {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(baseURL+"/images", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result uploadResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// deleteImage sends a delete request and returns the raw response.
func deleteImage(t *testing.T, client *http.Client, baseURL, imageID, userID string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"user_id": userID})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, baseURL+"/images/"+imageID, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

// TestE2E_ImageLifecycle_SQLite tests the full image lifecycle using SQLite.
func TestE2E_ImageLifecycle_SQLite(t *testing.T) {
	storageDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       dbPath,
		StoragePath: storageDir,
	})
	defer cleanup()

	runImageLifecycleTests(t, baseURL)
}

// TestE2E_ImageLifecycle_Postgres tests the full image lifecycle using PostgreSQL.
func TestE2E_ImageLifecycle_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	dsn := getSharedPostgresDatabase(t)
	storageDir := t.TempDir()

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "postgres",
		DBDSN:       dsn,
		DBTable:     "images_e2e_lifecycle",
		StoragePath: storageDir,
	})
	defer cleanup()

	runImageLifecycleTests(t, baseURL)
}

// runImageLifecycleTests contains the shared lifecycle test logic.
func runImageLifecycleTests(t *testing.T, baseURL string) {
	t.Helper()
	client := &http.Client{}

	content := []byte("fake png bytes for testing")
	encoded := base64.StdEncoding.EncodeToString(content)

	var imageID string
	t.Run("POST /images uploads an image", func(t *testing.T) {
		result := uploadImage(t, client, baseURL, map[string]any{
			"user_id":     "alice",
			"filename":    "sunset.png",
			"image_data":  encoded,
			"title":       "Sunset",
			"description": "Evening sky",
			"tags":        []string{"sky", "evening"},
		})

		assert.Equal(t, "Image uploaded successfully", result.Message)
		assert.NotEmpty(t, result.ImageID)
		assert.Equal(t, "alice", result.Metadata.OwnerID)
		assert.Equal(t, "sunset.png", result.Metadata.Filename)
		assert.Equal(t, "image/png", result.Metadata.ContentType)
		assert.Equal(t, int64(len(content)), result.Metadata.FileSize)
		assert.NotEmpty(t, result.Metadata.CreatedAt)

		imageID = result.ImageID
	})

	t.Run("GET with metadata_only returns no content", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/images/" + imageID + "?metadata_only=true")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result viewResp
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, imageID, result.Metadata.ImageID)
		assert.Equal(t, "Sunset", result.Metadata.Title)
		assert.Empty(t, result.ImageData)
	})

	t.Run("GET returns inline base64 content", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/images/" + imageID)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result viewResp
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, encoded, result.ImageData)
		assert.Equal(t, "image/png", result.ContentType)
	})

	t.Run("GET with download returns raw bytes", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/images/" + imageID + "?download=true")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="sunset.png"`, resp.Header.Get("Content-Disposition"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, body)
	})

	t.Run("DELETE by another user is forbidden", func(t *testing.T) {
		resp := deleteImage(t, client, baseURL, imageID, "mallory")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("DELETE by the owner succeeds", func(t *testing.T) {
		resp := deleteImage(t, client, baseURL, imageID, "alice")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result deleteResp
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "Image deleted successfully", result.Message)
		assert.Equal(t, imageID, result.ImageID)
		assert.Equal(t, "sunset.png", result.DeletedMetadata.Filename)
	})

	t.Run("GET returns 404 after delete", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/images/" + imageID)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("DELETE returns 404 after delete", func(t *testing.T) {
		resp := deleteImage(t, client, baseURL, imageID, "alice")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// TestE2E_List_SQLite tests listing and filtering using SQLite.
func TestE2E_List_SQLite(t *testing.T) {
	storageDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       dbPath,
		StoragePath: storageDir,
	})
	defer cleanup()

	client := &http.Client{}
	encoded := base64.StdEncoding.EncodeToString([]byte("content"))

	seeds := []map[string]any{
		{"user_id": "alice", "filename": "a.png", "image_data": encoded, "title": "Mountain Lake", "tags": []string{"nature", "water"}},
		{"user_id": "alice", "filename": "b.jpg", "image_data": encoded, "title": "City Night", "tags": []string{"city"}},
		{"user_id": "bob", "filename": "c.png", "image_data": encoded, "title": "Forest Path", "tags": []string{"nature"}},
	}
	for _, seed := range seeds {
		uploadImage(t, client, baseURL, seed)
	}

	listImages := func(t *testing.T, query string) imagebin.ListResult {
		t.Helper()

		resp, err := client.Get(baseURL + "/images" + query)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result imagebin.ListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return result
	}

	t.Run("GET /images lists everything", func(t *testing.T) {
		result := listImages(t, "")
		assert.Equal(t, 3, result.Count)
		assert.Len(t, result.Images, 3)
	})

	t.Run("filters by user_id", func(t *testing.T) {
		result := listImages(t, "?user_id=alice")
		assert.Equal(t, 2, result.Count)
		for _, img := range result.Images {
			assert.Equal(t, "alice", img.OwnerID)
		}
		assert.Equal(t, "alice", result.FiltersApplied["user_id"])
	})

	t.Run("filters by tags matches any tag", func(t *testing.T) {
		result := listImages(t, "?tags=nature,city")
		assert.Equal(t, 3, result.Count)

		result = listImages(t, "?tags=water")
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Mountain Lake", result.Images[0].Title)
	})

	t.Run("filters by title substring", func(t *testing.T) {
		result := listImages(t, "?title=forest")
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "bob", result.Images[0].OwnerID)
	})

	t.Run("limit caps results", func(t *testing.T) {
		result := listImages(t, "?limit=2")
		assert.Equal(t, 2, result.Count)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/images?limit=abc")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

// TestE2E_UploadValidation_SQLite tests upload rejection paths using SQLite.
func TestE2E_UploadValidation_SQLite(t *testing.T) {
	storageDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	baseURL, cleanup := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       dbPath,
		StoragePath: storageDir,
	})
	defer cleanup()

	client := &http.Client{}
	encoded := base64.StdEncoding.EncodeToString([]byte("content"))

	postRaw := func(t *testing.T, payload []byte) *http.Response {
		t.Helper()

		resp, err := client.Post(baseURL+"/images", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		return resp
	}

	postJSON := func(t *testing.T, body map[string]any) *http.Response {
		t.Helper()

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		return postRaw(t, payload)
	}

	t.Run("missing user_id is rejected", func(t *testing.T) {
		resp := postJSON(t, map[string]any{
			"filename":   "a.png",
			"image_data": encoded,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("disallowed extension is rejected", func(t *testing.T) {
		resp := postJSON(t, map[string]any{
			"user_id":    "alice",
			"filename":   "script.exe",
			"image_data": encoded,
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var result errorResp
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Contains(t, result.Error, "not allowed")
	})

	t.Run("invalid base64 is rejected", func(t *testing.T) {
		resp := postJSON(t, map[string]any{
			"user_id":    "alice",
			"filename":   "a.png",
			"image_data": "not base64!!!",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		resp := postRaw(t, []byte("{not json"))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("uppercase extension is accepted", func(t *testing.T) {
		result := uploadImage(t, client, baseURL, map[string]any{
			"user_id":    "alice",
			"filename":   "PHOTO.JPG",
			"image_data": encoded,
		})
		assert.Equal(t, "image/jpeg", result.Metadata.ContentType)
	})
}
