package clientcli

import "github.com/kmehta/imagebin"

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	Title       string
	Description string
	Tags        []string
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string               `json:"local_path"`
	ImageID   string               `json:"image_id,omitempty"`
	Metadata  imagebin.ImageRecord `json:"metadata,omitzero"`
	Err       error                `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	ImageID   string
	LocalPath string // empty = derive from server filename, "-" = stdout
}

// DownloadResult represents the result of downloading an image.
type DownloadResult struct {
	ImageID     string `json:"image_id"`
	LocalPath   string `json:"local_path"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	ImageIDs []string
}

// DeleteResult represents the result of deleting a single image.
type DeleteResult struct {
	ImageID string `json:"image_id"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// ListOptions configures a list operation. All filters are optional.
type ListOptions struct {
	OwnerID  string
	Tags     string
	DateFrom string
	DateTo   string
	Title    string
	Limit    int
}

// uploadRequest mirrors the JSON body the server expects for uploads.
type uploadRequest struct {
	UserID      string   `json:"user_id"`
	Filename    string   `json:"filename"`
	ImageData   string   `json:"image_data"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// uploadResponse mirrors the server's upload response.
type uploadResponse struct {
	Message  string               `json:"message"`
	ImageID  string               `json:"image_id"`
	Metadata imagebin.ImageRecord `json:"metadata"`
}

// viewResponse mirrors the server's metadata-only view response.
type viewResponse struct {
	Metadata imagebin.ImageRecord `json:"metadata"`
}

// deleteResponse mirrors the server's delete response.
type deleteResponse struct {
	Message         string               `json:"message"`
	ImageID         string               `json:"image_id"`
	DeletedMetadata imagebin.ImageRecord `json:"deleted_metadata"`
}
