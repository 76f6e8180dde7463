// Package surrealdb provides a SurrealDB store backend.
//
// Records live in the content table under the record id content:⟨kind/id⟩.
// A unique index on slug_key keeps non-empty slugs unique per kind.
// The document body is kept as a JSON string so the stored bytes round-trip
// exactly; timestamps are kept as Unix nanoseconds.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	surrealdb "github.com/surrealdb/surrealdb.go"
)

const table = "content"

type row struct {
	Kind      string `json:"kind"`
	Key       string `json:"key"`
	Slug      string `json:"slug"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func (r row) record() store.Record {
	return store.Record{
		Kind:      models.Kind(r.Kind),
		ID:        r.Key,
		Slug:      r.Slug,
		Data:      []byte(r.Data),
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, r.UpdatedAt).UTC(),
	}
}

func recordID(kind models.Kind, id string) string {
	return string(kind) + "/" + id
}

// slugKey is the value of the unique slug index. Records without a slug get
// a key derived from their id so they never clash.
func slugKey(rec store.Record) string {
	if rec.Slug == "" {
		return string(rec.Kind) + "#" + rec.ID
	}
	return string(rec.Kind) + "/" + rec.Slug
}

func conflict(rec store.Record) error {
	return fmt.Errorf("%w: %s %q (slug %q)", constants.ErrConflict, rec.Kind, rec.ID, rec.Slug)
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains")
}

// Config holds the connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Backend keeps records in SurrealDB.
type Backend struct {
	db *surrealdb.DB
}

var _ store.Backend = (*Backend)(nil)

// New connects to SurrealDB, signs in when credentials are set and selects
// the namespace and database.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &Backend{db: db}, nil
}

// Migrate defines the content table and its indexes.
func (b *Backend) Migrate(ctx context.Context) error {
	const schema = `
DEFINE TABLE IF NOT EXISTS content SCHEMALESS;
DEFINE INDEX IF NOT EXISTS content_kind_key ON content FIELDS kind, key UNIQUE;
DEFINE INDEX IF NOT EXISTS content_slug_key ON content FIELDS slug_key UNIQUE;
DEFINE INDEX IF NOT EXISTS content_created ON content FIELDS created_at;`
	if _, err := surrealdb.Query[any](ctx, b.db, schema, nil); err != nil {
		return fmt.Errorf("failed to define content schema: %w", err)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close(context.Background())
}

func (b *Backend) query(ctx context.Context, sql string, vars map[string]any) ([]row, error) {
	res, err := surrealdb.Query[[]row](ctx, b.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}
	return (*res)[0].Result, nil
}

func notFound(kind models.Kind, id string) error {
	return fmt.Errorf("%w: %s %q", constants.ErrNotFound, kind, id)
}

func (b *Backend) List(ctx context.Context, kind models.Kind) ([]store.Record, error) {
	rows, err := b.query(ctx,
		"SELECT kind, key, slug, data, created_at, updated_at FROM content WHERE kind = $kind ORDER BY created_at ASC, key ASC",
		map[string]any{"kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	out := make([]store.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (b *Backend) Get(ctx context.Context, kind models.Kind, id string) (store.Record, error) {
	rows, err := b.query(ctx,
		"SELECT kind, key, slug, data, created_at, updated_at FROM type::thing($tb, $rid)",
		map[string]any{"tb": table, "rid": recordID(kind, id)})
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to get %s %q: %w", kind, id, err)
	}
	if len(rows) == 0 {
		return store.Record{}, notFound(kind, id)
	}
	return rows[0].record(), nil
}

func (b *Backend) FindBySlug(ctx context.Context, kind models.Kind, slug string) (store.Record, error) {
	if slug == "" {
		return store.Record{}, fmt.Errorf("%w: %s with empty slug", constants.ErrNotFound, kind)
	}
	rows, err := b.query(ctx,
		"SELECT kind, key, slug, data, created_at, updated_at FROM content WHERE kind = $kind AND slug = $slug LIMIT 1",
		map[string]any{"kind": string(kind), "slug": slug})
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to find %s by slug %q: %w", kind, slug, err)
	}
	if len(rows) == 0 {
		return store.Record{}, fmt.Errorf("%w: %s slug %q", constants.ErrNotFound, kind, slug)
	}
	return rows[0].record(), nil
}

func (b *Backend) Insert(ctx context.Context, rec store.Record) error {
	_, err := b.query(ctx, "CREATE type::thing($tb, $rid) CONTENT $content", map[string]any{
		"tb":  table,
		"rid": recordID(rec.Kind, rec.ID),
		"content": map[string]any{
			"kind":       string(rec.Kind),
			"key":        rec.ID,
			"slug":       rec.Slug,
			"slug_key":   slugKey(rec),
			"data":       string(rec.Data),
			"created_at": rec.CreatedAt.UnixNano(),
			"updated_at": rec.UpdatedAt.UnixNano(),
		},
	})
	if err != nil {
		if isUniqueViolation(err) {
			return conflict(rec)
		}
		return fmt.Errorf("failed to insert %s %q: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, rec store.Record) error {
	rows, err := b.query(ctx,
		"UPDATE content SET slug = $slug, slug_key = $slug_key, data = $data, updated_at = $updated_at WHERE kind = $kind AND key = $key RETURN AFTER",
		map[string]any{
			"kind":       string(rec.Kind),
			"key":        rec.ID,
			"slug":       rec.Slug,
			"slug_key":   slugKey(rec),
			"data":       string(rec.Data),
			"updated_at": rec.UpdatedAt.UnixNano(),
		})
	if err != nil {
		if isUniqueViolation(err) {
			return conflict(rec)
		}
		return fmt.Errorf("failed to replace %s %q: %w", rec.Kind, rec.ID, err)
	}
	if len(rows) == 0 {
		return notFound(rec.Kind, rec.ID)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind models.Kind, id string) error {
	rows, err := b.query(ctx,
		"DELETE content WHERE kind = $kind AND key = $key RETURN BEFORE",
		map[string]any{"kind": string(kind), "key": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", kind, id, err)
	}
	if len(rows) == 0 {
		return notFound(kind, id)
	}
	return nil
}
