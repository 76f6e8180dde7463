package constants

import "errors"

// Document errors
var (
	ErrPendingMedia = errors.New("media slot still holds a pending file")
	ErrMissingID    = errors.New("document identifier is required")
	ErrImmutableID  = errors.New("document identifier cannot change after creation")
)

// Pipeline errors
var (
	ErrUploadFailed   = errors.New("media upload failed")
	ErrSaveFailed     = errors.New("save failed")
	ErrDeleteFailed   = errors.New("delete failed")
	ErrFetchFailed    = errors.New("fetch failed")
	ErrSubmitInFlight = errors.New("a submit is already in flight")
)

// Transport and storage errors
var (
	ErrNoBaseURL          = errors.New("base url not set")
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("id already in use")
	ErrReadOnly           = errors.New("operation denied: store is in read-only mode")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrMethodNotAvailable = errors.New("method not available on this endpoint")
)
