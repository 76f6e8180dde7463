// Package media uploads the files selected in a document and replaces them
// with the stored paths the upload endpoint returns.
//
// Resolution is all-or-nothing: the uploads of one call run concurrently,
// and if any of them fails the call fails without returning a document. The
// input document is never modified. Files that were stored before the failure
// are reported in the ResolveError and left in storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Uploader stores one file and returns the path it can be referenced by.
type Uploader interface {
	Upload(ctx context.Context, f models.File) (string, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, f models.File) (string, error)

func (fn UploaderFunc) Upload(ctx context.Context, f models.File) (string, error) {
	return fn(ctx, f)
}

// ResolveError reports a failed resolution.
type ResolveError struct {
	// File is the name of the file whose upload failed first.
	File string
	// Stored lists the paths of uploads from the same call that succeeded.
	Stored []string
	Err    error
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", constants.ErrUploadFailed, e.File, e.Err)
	if len(e.Stored) > 0 {
		msg += fmt.Sprintf(" (orphaned: %s)", strings.Join(e.Stored, ", "))
	}
	return msg
}

func (e *ResolveError) Unwrap() []error {
	return []error{constants.ErrUploadFailed, e.Err}
}

// Resolver runs media resolution against an Uploader.
type Resolver struct {
	uploader Uploader
	limit    int
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Resolver)

// WithLimit caps the number of uploads running at once. Zero or less means no cap.
func WithLimit(n int) Option {
	return func(r *Resolver) { r.limit = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver returns a Resolver uploading through u.
func NewResolver(u Uploader, opts ...Option) *Resolver {
	r := &Resolver{uploader: u, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a copy of doc in which every pending media slot holds the
// path its file was stored at. Stored and empty slots are left alone. The
// copy is finalized before it is returned.
func Resolve[D models.Document](ctx context.Context, r *Resolver, doc D) (D, error) {
	out := models.Clone(doc)
	pending := models.Unresolved(out)
	if len(pending) > 0 {
		if err := r.upload(ctx, pending); err != nil {
			var zero D
			return zero, err
		}
	}
	out.Finalize()
	return out, nil
}

func (r *Resolver) upload(ctx context.Context, slots []*models.MediaRef) error {
	var (
		mu     sync.Mutex
		stored []string
		failed string
	)
	paths := make([]string, len(slots))

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, slot := range slots {
		f, _ := slot.Pending()
		g.Go(func() error {
			path, err := r.uploadOne(gctx, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if failed == "" {
					failed = f.Name
				}
				return err
			}
			paths[i] = path
			stored = append(stored, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Error().Err(err).Str("file", failed).Strs("orphaned", stored).Msg("media resolution failed")
		return &ResolveError{File: failed, Stored: stored, Err: err}
	}

	for i, slot := range slots {
		*slot = models.StoredMedia(paths[i])
	}
	r.logger.Debug().Int("uploads", len(slots)).Msg("media resolved")
	return nil
}

func (r *Resolver) uploadOne(ctx context.Context, f models.File) (string, error) {
	start := time.Now()
	path, err := r.uploader.Upload(ctx, f)
	if err == nil && path == "" {
		err = errors.New("upload endpoint returned an empty path")
	}
	if r.metrics != nil {
		r.metrics.RecordUpload(f.Size, time.Since(start), err)
	}
	if err != nil {
		return "", err
	}
	r.logger.Debug().Str("file", f.Name).Str("path", path).Msg("uploaded")
	return path, nil
}
