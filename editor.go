package contentkit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/client"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/form"
	"github.com/lumenworks/contentkit/pkg/logger"
	"github.com/lumenworks/contentkit/pkg/media"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
)

type editorConfig struct {
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	uploadLimit int
	now         func() time.Time
}

// EditorOption configures an Editor.
type EditorOption func(*editorConfig)

func WithLogger(l zerolog.Logger) EditorOption {
	return func(c *editorConfig) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) EditorOption {
	return func(c *editorConfig) { c.metrics = m }
}

// WithUploadLimit caps the number of concurrent uploads of one submit.
func WithUploadLimit(n int) EditorOption {
	return func(c *editorConfig) { c.uploadLimit = n }
}

// WithClock sets the time source used for status timestamps.
func WithClock(now func() time.Time) EditorOption {
	return func(c *editorConfig) { c.now = now }
}

// Editor is the state behind one admin screen: the form, the list cache and
// the last status.
type Editor[D models.Document] struct {
	gateway  Gateway[D]
	resolver *media.Resolver
	form     *form.Controller[D]
	kind     models.Kind
	cfg      editorConfig

	mu         sync.RWMutex
	items      []D
	status     Status
	submitting atomic.Bool
}

// NewEditor returns an editor for documents built from tmpl, persisted through
// gw, with media uploaded through up.
func NewEditor[D models.Document](tmpl models.Template[D], gw Gateway[D], up media.Uploader, opts ...EditorOption) *Editor[D] {
	cfg := editorConfig{logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = logger.Component(cfg.logger, "editor").With().Str("kind", tmpl.Kind.String()).Logger()

	resolverOpts := []media.Option{media.WithLogger(logger.Component(cfg.logger, "media")), media.WithLimit(cfg.uploadLimit)}
	if cfg.metrics != nil {
		resolverOpts = append(resolverOpts, media.WithMetrics(cfg.metrics))
	}
	return &Editor[D]{
		gateway:  gw,
		resolver: media.NewResolver(up, resolverOpts...),
		form:     form.New(tmpl),
		kind:     tmpl.Kind,
		cfg:      cfg,
		items:    []D{},
	}
}

// NewProductEditor returns a product editor talking to c.
func NewProductEditor(c *client.Client, opts ...EditorOption) *Editor[*models.Product] {
	return NewEditor(models.Products, c.Products(), c, opts...)
}

// NewProjectEditor returns a project editor talking to c.
func NewProjectEditor(c *client.Client, opts ...EditorOption) *Editor[*models.Project] {
	return NewEditor(models.Projects, c.Projects(), c, opts...)
}

// NewBlogEditor returns a blog post editor talking to c.
func NewBlogEditor(c *client.Client, opts ...EditorOption) *Editor[*models.BlogPost] {
	return NewEditor(models.BlogPosts, c.BlogPosts(), c, opts...)
}

// Form returns the form controller edits are applied through.
func (e *Editor[D]) Form() *form.Controller[D] {
	return e.form
}

// Items returns the cached list. The returned slice is a copy; the documents
// must be treated as read-only.
func (e *Editor[D]) Items() []D {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]D, len(e.items))
	copy(out, e.items)
	return out
}

// Status returns the outcome of the last operation.
func (e *Editor[D]) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Submitting reports whether a submit is in flight.
func (e *Editor[D]) Submitting() bool {
	return e.submitting.Load()
}

func (e *Editor[D]) setStatus(level Level, msg string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = Status{Level: level, Message: msg, Err: err, At: e.cfg.now()}
}

// Load replaces the cached list with the server's. When the fetch fails the
// list is emptied and an informational status is set.
func (e *Editor[D]) Load(ctx context.Context) error {
	items, err := e.gateway.List(ctx)
	if err != nil {
		e.cfg.logger.Warn().Err(err).Msg("failed to load list")
		e.mu.Lock()
		e.items = []D{}
		e.mu.Unlock()
		e.setStatus(LevelInfo, fmt.Sprintf("Could not load %ss", label(e.kind)), err)
		return fmt.Errorf("%w: %w", constants.ErrFetchFailed, err)
	}
	if items == nil {
		items = []D{}
	}
	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
	e.cfg.logger.Debug().Int("count", len(items)).Msg("list loaded")
	return nil
}

// New starts a new, blank document.
func (e *Editor[D]) New() {
	e.form.Reset()
}

// Open loads the document with the given key into the form, from the cache
// when it holds it and from the server otherwise.
func (e *Editor[D]) Open(ctx context.Context, key string) error {
	if rec, ok := e.lookup(key); ok {
		e.form.Load(rec)
		return nil
	}
	rec, err := e.gateway.Get(ctx, key)
	if err != nil {
		e.setStatus(LevelError, fmt.Sprintf("Could not open %s", label(e.kind)), err)
		return fmt.Errorf("%w: %w", constants.ErrFetchFailed, err)
	}
	e.form.Load(rec)
	return nil
}

func (e *Editor[D]) lookup(key string) (D, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, it := range e.items {
		if key != "" && it.Key() == key {
			return it, true
		}
	}
	var zero D
	return zero, false
}

// Submit persists the document in the form. A document loaded from a record
// is updated, anything else is created. On success the stored record enters
// the list cache and the form is reset; on failure both stay as they were.
// A Submit issued while another is in flight fails with ErrSubmitInFlight.
func (e *Editor[D]) Submit(ctx context.Context) (D, error) {
	var zero D
	if !e.submitting.CompareAndSwap(false, true) {
		return zero, constants.ErrSubmitInFlight
	}
	defer e.submitting.Store(false)

	tmpl := e.form.Template()
	doc := e.form.Document()
	origin := e.form.Origin()
	op := "create"
	if origin != "" {
		op = "update"
	}

	if err := e.validate(tmpl, doc, origin); err != nil {
		e.setStatus(LevelError, err.Error(), err)
		return zero, err
	}

	resolved, err := media.Resolve(ctx, e.resolver, doc)
	if err != nil {
		e.record(op, err)
		e.setStatus(LevelError, "Failed to upload media", err)
		return zero, err
	}

	var saved D
	if origin == "" {
		saved, err = e.gateway.Create(ctx, resolved)
	} else {
		saved, err = e.gateway.Update(ctx, origin, resolved)
	}
	e.record(op, err)
	if err != nil {
		e.cfg.logger.Error().Err(err).Str("op", op).Str("key", origin).Msg("save failed")
		e.setStatus(LevelError, fmt.Sprintf("Failed to save %s", label(e.kind)), err)
		return zero, fmt.Errorf("%w: %w", constants.ErrSaveFailed, err)
	}

	e.mu.Lock()
	if origin == "" {
		e.items = append(e.items, saved)
	} else {
		e.replace(origin, saved)
	}
	e.mu.Unlock()

	e.form.Reset()
	e.setStatus(LevelSuccess, fmt.Sprintf("%s %sd", capitalize(label(e.kind)), op), nil)
	e.cfg.logger.Info().Str("op", op).Str("key", saved.Key()).Msg("saved")
	return saved, nil
}

func (e *Editor[D]) validate(tmpl models.Template[D], doc D, origin string) error {
	if tmpl.KeyRequired && doc.Key() == "" {
		return constants.ErrMissingID
	}
	if origin != "" && tmpl.KeyImmutable && doc.Key() != origin {
		return fmt.Errorf("%w: %q -> %q", constants.ErrImmutableID, origin, doc.Key())
	}
	return nil
}

// replace swaps the cached record with key for rec. The caller holds e.mu.
func (e *Editor[D]) replace(key string, rec D) {
	items := make([]D, len(e.items))
	copy(items, e.items)
	for i, it := range items {
		if it.Key() == key {
			items[i] = rec
			e.items = items
			return
		}
	}
	e.items = append(items, rec)
}

// Delete removes the document with the given key from the server and, once
// the server confirmed, from the cache. A key missing from the cache is
// fetched from the server first. A form holding that document is reset.
func (e *Editor[D]) Delete(ctx context.Context, key string) error {
	rec, ok := e.lookup(key)
	if !ok {
		fetched, err := e.gateway.Get(ctx, key)
		if err != nil {
			e.setStatus(LevelError, fmt.Sprintf("Failed to delete %s", label(e.kind)), err)
			return fmt.Errorf("%w: %w", constants.ErrDeleteFailed, err)
		}
		rec = fetched
	}
	err := e.gateway.Remove(ctx, rec)
	e.record("delete", err)
	if err != nil {
		e.cfg.logger.Error().Err(err).Str("key", key).Msg("delete failed")
		e.setStatus(LevelError, fmt.Sprintf("Failed to delete %s", label(e.kind)), err)
		return fmt.Errorf("%w: %w", constants.ErrDeleteFailed, err)
	}

	e.mu.Lock()
	items := make([]D, 0, len(e.items))
	for _, it := range e.items {
		if it.Key() != key {
			items = append(items, it)
		}
	}
	e.items = items
	e.mu.Unlock()

	e.form.ResetIf(key)
	e.setStatus(LevelSuccess, fmt.Sprintf("%s deleted", capitalize(label(e.kind))), nil)
	return nil
}

// Follow re-fetches the list whenever events announces a change to the
// editor's kind. It returns when ctx is done or events is closed.
func (e *Editor[D]) Follow(ctx context.Context, events <-chan models.ChangeEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind != e.kind {
				continue
			}
			e.cfg.logger.Debug().Str("op", string(ev.Op)).Str("key", ev.Key).Msg("remote change")
			if err := e.Load(ctx); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

func (e *Editor[D]) record(op string, err error) {
	if e.cfg.metrics != nil {
		e.cfg.metrics.RecordSubmit(e.kind.String(), op, err)
	}
}
