// Package http exposes the image-hosting REST API.
//
// Routes:
//
//	POST   /images            upload a base64-encoded image
//	GET    /images            list images with optional filters
//	GET    /images/{image_id} view, inline or as a download
//	DELETE /images/{image_id} delete after an ownership check
//	GET    /healthz           liveness probe
//
// Every response carries a permissive CORS header; errors are JSON objects
// with an "error" message and, for unexpected failures, a "details" string.
package http
