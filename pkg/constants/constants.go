package constants

import "time"

const (
	// DefaultHTTPTimeout bounds every request made by the REST client.
	DefaultHTTPTimeout = 30 * time.Second

	// PlatformExampleSlots is the fixed number of platform example blocks on a product.
	PlatformExampleSlots = 5

	// UploadFormField is the multipart part name the upload endpoint reads.
	UploadFormField = "file"

	// MaxUploadBytes caps a single media upload.
	MaxUploadBytes = 25 << 20
)

// API paths served by the content backend.
const (
	ProductPath  = "/api/product"
	ProjectsPath = "/api/projects"
	BlogPath     = "/api/blog"
	UploadPath   = "/api/upload"
	EventsPath   = "/api/events"
)
