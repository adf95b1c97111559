package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/kmehta/imagebin"
)

// Service is the subset of the image service the handlers need.
type Service interface {
	Upload(ctx context.Context, req imagebin.UploadRequest) (imagebin.ImageRecord, error)
	List(ctx context.Context, q imagebin.ListQuery) (imagebin.ListResult, error)
	View(ctx context.Context, imageID string) (imagebin.ImageRecord, error)
	Fetch(ctx context.Context, imageID string) (imagebin.ImageRecord, []byte, string, error)
	Delete(ctx context.Context, imageID, ownerID string) (imagebin.ImageRecord, error)
}

type HandlerConfig struct {
	// MaxBodyBytes caps request bodies. Zero means the default, which
	// leaves headroom above the decoded 10 MiB limit for base64 overhead
	// and the JSON envelope.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = imagebin.MaxImageBytes/3*4 + 1<<20

// Handler provides the HTTP handlers for the image API.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	h := &Handler{
		config:  *config,
		service: service,
	}
	if h.config.MaxBodyBytes <= 0 {
		h.config.MaxBodyBytes = defaultMaxBodyBytes
	}
	return h
}

// Router returns an http.Handler with the image routes mounted. CORS is
// always permissive; every caller may hit every endpoint.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", h.handleHealth)

	r.Route("/images", func(r chi.Router) {
		r.Post("/", h.handleUpload)
		r.Get("/", h.handleList)
		r.Get("/{image_id}", h.handleView)
		r.Delete("/{image_id}", h.handleDelete)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type uploadRequest struct {
	UserID      string   `json:"user_id"`
	Filename    string   `json:"filename"`
	ImageData   string   `json:"image_data"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type uploadResponse struct {
	Message  string               `json:"message"`
	ImageID  string               `json:"image_id"`
	Metadata imagebin.ImageRecord `json:"metadata"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusBadRequest, "file too large", "")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	rec, err := h.service.Upload(r.Context(), imagebin.UploadRequest{
		OwnerID:     req.UserID,
		Filename:    req.Filename,
		ImageData:   req.ImageData,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, uploadResponse{
		Message:  "Image uploaded successfully",
		ImageID:  rec.ImageID,
		Metadata: rec,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 0
	if limitStr := params.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "invalid limit parameter", "")
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), imagebin.ListQuery{
		OwnerID:  params.Get("user_id"),
		Tags:     params.Get("tags"),
		DateFrom: params.Get("date_from"),
		DateTo:   params.Get("date_to"),
		Title:    params.Get("title"),
		Limit:    limit,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

type viewResponse struct {
	Metadata    imagebin.ImageRecord `json:"metadata"`
	ImageData   string               `json:"image_data,omitempty"`
	ContentType string               `json:"content_type,omitempty"`
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")
	params := r.URL.Query()
	metadataOnly := strings.EqualFold(params.Get("metadata_only"), "true")
	download := strings.EqualFold(params.Get("download"), "true")

	if metadataOnly {
		rec, err := h.service.View(r.Context(), imageID)
		if err != nil {
			HandleError(w, err)
			return
		}
		_ = WriteJSON(w, http.StatusOK, viewResponse{Metadata: rec})
		return
	}

	rec, data, contentType, err := h.service.Fetch(r.Context(), imageID)
	if err != nil {
		HandleError(w, err)
		return
	}

	if download {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	_ = WriteJSON(w, http.StatusOK, viewResponse{
		Metadata:    rec,
		ImageData:   base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	})
}

type deleteRequest struct {
	UserID string `json:"user_id"`
}

type deleteResponse struct {
	Message         string               `json:"message"`
	ImageID         string               `json:"image_id"`
	DeletedMetadata imagebin.ImageRecord `json:"deleted_metadata"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")

	var req deleteRequest
	if r.Body != nil {
		// An absent or malformed body is treated the same as a missing
		// user_id; the service rejects it.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	rec, err := h.service.Delete(r.Context(), imageID, req.UserID)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, deleteResponse{
		Message:         "Image deleted successfully",
		ImageID:         imageID,
		DeletedMetadata: rec,
	})
}
