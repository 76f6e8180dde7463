package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
)

// DocumentStore implements Store over a Backend.
type DocumentStore struct {
	backend Backend
	now     func() time.Time
	newID   func() string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type Option func(*DocumentStore)

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) { s.now = now }
}

// WithIDGenerator sets the generator for server-assigned ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *DocumentStore) { s.newID = fn }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DocumentStore) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *DocumentStore) { s.logger = l }
}

// New returns a Store keeping its records in b.
func New(b Backend, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		backend: b,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentStore) Migrate(ctx context.Context) error {
	return s.backend.Migrate(ctx)
}

func (s *DocumentStore) Close() error {
	return s.backend.Close()
}

func (s *DocumentStore) observe(kind models.Kind, op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(kind.String(), op, err)
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("kind", kind.String()).Str("op", op).Msg("store operation failed")
	}
}

func listAs[T any](ctx context.Context, b Backend, kind models.Kind) ([]*T, error) {
	recs, err := b.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decode[T any](rec Record) (*T, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return nil, fmt.Errorf("corrupt %s record %q: %w", rec.Kind, rec.ID, err)
	}
	return &v, nil
}

func stamp(m *models.Meta, created, updated time.Time) {
	m.CreatedAt = &created
	m.UpdatedAt = &updated
}

func record(kind models.Kind, id, slug string, doc any, created, updated time.Time) (Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode %s %q: %w", kind, id, err)
	}
	return Record{Kind: kind, ID: id, Slug: slug, Data: data, CreatedAt: created, UpdatedAt: updated}, nil
}

// Products

func (s *DocumentStore) ListProducts(ctx context.Context) (out []*models.Product, err error) {
	defer func() { s.observe(models.KindProduct, "list", err) }()
	return listAs[models.Product](ctx, s.backend, models.KindProduct)
}

func (s *DocumentStore) GetProduct(ctx context.Context, id string) (out *models.Product, err error) {
	defer func() { s.observe(models.KindProduct, "get", err) }()
	rec, err := s.backend.Get(ctx, models.KindProduct, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Product](rec)
}

func (s *DocumentStore) CreateProduct(ctx context.Context, p *models.Product) (out *models.Product, err error) {
	defer func() { s.observe(models.KindProduct, "create", err) }()
	p = models.Products.FromRecord(p)
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return nil, constants.ErrMissingID
	}
	now := s.now()
	stamp(&p.Meta, now, now)
	rec, err := record(models.KindProduct, p.ID, "", p, now, now)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DocumentStore) UpdateProduct(ctx context.Context, id string, p *models.Product) (out *models.Product, err error) {
	defer func() { s.observe(models.KindProduct, "update", err) }()
	p = models.Products.FromRecord(p)
	if p.ID == "" {
		p.ID = id
	}
	if p.ID != id {
		return nil, fmt.Errorf("%w: %q -> %q", constants.ErrImmutableID, id, p.ID)
	}
	existing, err := s.backend.Get(ctx, models.KindProduct, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stamp(&p.Meta, existing.CreatedAt, now)
	rec, err := record(models.KindProduct, id, "", p, existing.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Replace(ctx, rec); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DocumentStore) DeleteProduct(ctx context.Context, id string) (err error) {
	defer func() { s.observe(models.KindProduct, "delete", err) }()
	return s.backend.Delete(ctx, models.KindProduct, id)
}

// Projects

func (s *DocumentStore) ListProjects(ctx context.Context) (out []*models.Project, err error) {
	defer func() { s.observe(models.KindProject, "list", err) }()
	return listAs[models.Project](ctx, s.backend, models.KindProject)
}

func (s *DocumentStore) GetProjectBySlug(ctx context.Context, slug string) (out *models.Project, err error) {
	defer func() { s.observe(models.KindProject, "get", err) }()
	rec, err := s.backend.FindBySlug(ctx, models.KindProject, slug)
	if err != nil {
		return nil, err
	}
	return decode[models.Project](rec)
}

func (s *DocumentStore) SaveProject(ctx context.Context, p *models.Project) (out *models.Project, created bool, err error) {
	p = models.Projects.FromRecord(p)
	created = p.ID == ""
	op := "update"
	if created {
		op = "create"
	}
	defer func() { s.observe(models.KindProject, op, err) }()

	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		return nil, false, fmt.Errorf("%w: project slug", constants.ErrMissingID)
	}
	if other, err := s.backend.FindBySlug(ctx, models.KindProject, p.Slug); err == nil && other.ID != p.ID {
		return nil, false, fmt.Errorf("%w: slug %q", constants.ErrConflict, p.Slug)
	}

	now := s.now()
	if created {
		p.ID = s.newID()
		stamp(&p.Meta, now, now)
		rec, err := record(models.KindProject, p.ID, p.Slug, p, now, now)
		if err != nil {
			return nil, false, err
		}
		if err := s.backend.Insert(ctx, rec); err != nil {
			return nil, false, err
		}
		return p, true, nil
	}

	existing, err := s.backend.Get(ctx, models.KindProject, p.ID)
	if err != nil {
		return nil, false, err
	}
	stamp(&p.Meta, existing.CreatedAt, now)
	rec, err := record(models.KindProject, p.ID, p.Slug, p, existing.CreatedAt, now)
	if err != nil {
		return nil, false, err
	}
	if err := s.backend.Replace(ctx, rec); err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (s *DocumentStore) DeleteProjectBySlug(ctx context.Context, slug string) (out *models.Project, err error) {
	defer func() { s.observe(models.KindProject, "delete", err) }()
	rec, err := s.backend.FindBySlug(ctx, models.KindProject, slug)
	if err != nil {
		return nil, err
	}
	p, err := decode[models.Project](rec)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Delete(ctx, models.KindProject, rec.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Blog posts

func (s *DocumentStore) ListBlogPosts(ctx context.Context) (out []*models.BlogPost, err error) {
	defer func() { s.observe(models.KindBlog, "list", err) }()
	return listAs[models.BlogPost](ctx, s.backend, models.KindBlog)
}

func (s *DocumentStore) GetBlogPost(ctx context.Context, id string) (out *models.BlogPost, err error) {
	defer func() { s.observe(models.KindBlog, "get", err) }()
	rec, err := s.backend.Get(ctx, models.KindBlog, id)
	if err != nil {
		return nil, err
	}
	return decode[models.BlogPost](rec)
}

func (s *DocumentStore) CreateBlogPost(ctx context.Context, b *models.BlogPost) (out *models.BlogPost, err error) {
	defer func() { s.observe(models.KindBlog, "create", err) }()
	b = models.BlogPosts.FromRecord(b)
	b.ID = s.newID()
	now := s.now()
	stamp(&b.Meta, now, now)
	rec, err := record(models.KindBlog, b.ID, "", b, now, now)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *DocumentStore) UpdateBlogPost(ctx context.Context, b *models.BlogPost) (out *models.BlogPost, err error) {
	defer func() { s.observe(models.KindBlog, "update", err) }()
	if b == nil || b.ID == "" {
		return nil, constants.ErrMissingID
	}
	b = models.BlogPosts.FromRecord(b)
	existing, err := s.backend.Get(ctx, models.KindBlog, b.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stamp(&b.Meta, existing.CreatedAt, now)
	rec, err := record(models.KindBlog, b.ID, "", b, existing.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Replace(ctx, rec); err != nil {
		return nil, err
	}
	return b, nil
}
