package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kmehta/imagebin"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatList(w io.Writer, result *imagebin.ListResult) error
	FormatView(w io.Writer, rec imagebin.ImageRecord) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Uploaded: %s (%s)\n", r.LocalPath, formatSize(r.Metadata.FileSize))
			_, _ = fmt.Fprintf(w, "  ID: %s\n", r.ImageID)
		}
	}
	return nil
}

// FormatDownload formats download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if !f.Quiet {
		if result.LocalPath == "-" {
			_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", result.ImageID, formatSize(result.Size))
		} else {
			_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.ImageID, result.LocalPath, formatSize(result.Size))
		}
	}
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.ImageID, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted: %s\n", r.ImageID)
		}
	}
	return nil
}

// FormatList formats list results as human-readable text.
func (f *HumanFormatter) FormatList(w io.Writer, result *imagebin.ListResult) error {
	if len(result.Images) == 0 {
		_, _ = fmt.Fprintln(w, "No images found")
		return nil
	}

	// Calculate column widths
	maxTitleLen := 5 // "TITLE"
	for i := range result.Images {
		title := displayTitle(&result.Images[i])
		if len(title) > maxTitleLen {
			maxTitleLen = len(title)
		}
	}
	if maxTitleLen > 40 {
		maxTitleLen = 40
	}

	// Print header
	_, _ = fmt.Fprintf(w, "%-36s  %-*s  %10s  %s\n", "ID", maxTitleLen, "TITLE", "SIZE", "CREATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", maxTitleLen), strings.Repeat("-", 10), strings.Repeat("-", 20))

	// Print items
	var total int64
	for i := range result.Images {
		rec := &result.Images[i]
		title := displayTitle(rec)
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-36s  %-*s  %10s  %s\n",
			rec.ImageID,
			maxTitleLen,
			title,
			formatSize(rec.FileSize),
			rec.CreatedAt,
		)
		total += rec.FileSize
	}

	// Print summary
	_, _ = fmt.Fprintf(w, "\n%d image(s) (%s total)\n", result.Count, formatSize(total))

	return nil
}

// FormatView formats a single image's metadata as human-readable text.
func (f *HumanFormatter) FormatView(w io.Writer, rec imagebin.ImageRecord) error {
	_, _ = fmt.Fprintf(w, "ID:           %s\n", rec.ImageID)
	_, _ = fmt.Fprintf(w, "Owner:        %s\n", rec.OwnerID)
	_, _ = fmt.Fprintf(w, "Filename:     %s\n", rec.Filename)
	_, _ = fmt.Fprintf(w, "Content-Type: %s\n", rec.ContentType)
	if rec.Title != "" {
		_, _ = fmt.Fprintf(w, "Title:        %s\n", rec.Title)
	}
	if rec.Description != "" {
		_, _ = fmt.Fprintf(w, "Description:  %s\n", rec.Description)
	}
	if len(rec.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags:         %s\n", strings.Join(rec.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "Size:         %s\n", formatSize(rec.FileSize))
	_, _ = fmt.Fprintf(w, "Created:      %s\n", rec.CreatedAt)
	_, _ = fmt.Fprintf(w, "Updated:      %s\n", rec.UpdatedAt)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		LocalPath string                `json:"local_path"`
		ImageID   string                `json:"image_id,omitempty"`
		Metadata  *imagebin.ImageRecord `json:"metadata,omitempty"`
		Error     string                `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{
			LocalPath: r.LocalPath,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.ImageID = r.ImageID
			meta := r.Metadata
			jr.Metadata = &meta
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatDownload formats download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		ImageID string `json:"image_id"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{
			ImageID: r.ImageID,
			Deleted: r.Deleted,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatList formats list results as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, result *imagebin.ListResult) error {
	return writeJSON(w, result)
}

// FormatView formats a single image's metadata as JSON.
func (f *JSONFormatter) FormatView(w io.Writer, rec imagebin.ImageRecord) error {
	return writeJSON(w, rec)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayTitle falls back to the filename when no title was set.
func displayTitle(rec *imagebin.ImageRecord) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.Filename
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	// Calculate column widths
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	// Print header
	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "USER ID")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	// Print profiles
	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		endpoint := p.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}

		userID := p.UserID
		if userID == "" {
			userID = "(not set)"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, userID)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "User ID:  %s\n", profile.UserID)
	return nil
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		UserID   string `json:"user_id,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			UserID:   p.UserID,
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		UserID   string `json:"user_id"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		UserID:   profile.UserID,
		Default:  isDefault,
	}

	return writeJSON(w, output)
}
