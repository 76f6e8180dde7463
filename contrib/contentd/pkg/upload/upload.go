// Package upload receives media files for the content server and hands them
// to a Storage, which makes them available under a public path.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/rs/zerolog"
)

// Object is a received file ready to be stored.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
}

// Storage keeps uploaded objects and returns the path they are served at.
type Storage interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// Service validates uploads and stores them.
type Service struct {
	storage  Storage
	maxBytes int64
	newName  func() string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

type Option func(*Service)

// WithMaxBytes sets the size limit of a single upload.
func WithMaxBytes(n int64) Option {
	return func(s *Service) { s.maxBytes = n }
}

// WithNameGenerator sets the generator for stored object names. Names get the
// extension of the detected media type appended.
func WithNameGenerator(fn func() string) Option {
	return func(s *Service) { s.newName = fn }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		maxBytes: constants.MaxUploadBytes,
		newName:  uuid.NewString,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes returns the size limit of a single upload.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// TooLargeError reports an upload over the size limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
}

// Allowed reports whether files of the given media type are accepted.
func Allowed(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		t := m.String()
		if strings.HasPrefix(t, "image/") || strings.HasPrefix(t, "video/") || m.Is("application/pdf") {
			return true
		}
	}
	return false
}

// Save reads r, checks its content and stores it. filename is only used for
// logging; the stored name is generated.
func (s *Service) Save(ctx context.Context, filename string, r io.Reader) (path string, err error) {
	var size int64
	if s.metrics != nil {
		start := time.Now()
		defer func() { s.metrics.RecordUpload(size, time.Since(start), err) }()
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	size = int64(len(data))
	if size > s.maxBytes {
		return "", &TooLargeError{Limit: s.maxBytes}
	}
	if size == 0 {
		return "", fmt.Errorf("%w: empty file", constants.ErrUnsupportedMedia)
	}

	mt := mimetype.Detect(data)
	if !Allowed(mt) {
		return "", fmt.Errorf("%w: %s", constants.ErrUnsupportedMedia, mt.String())
	}

	obj := Object{
		Name:        s.newName() + mt.Extension(),
		ContentType: mt.String(),
		Data:        data,
	}
	path, err = s.storage.Put(ctx, obj)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filename, err)
	}
	s.logger.Info().Str("file", filename).Str("path", path).Str("type", obj.ContentType).Int64("size", size).Msg("upload stored")
	return path, nil
}

func (o Object) Reader() io.Reader {
	return bytes.NewReader(o.Data)
}
