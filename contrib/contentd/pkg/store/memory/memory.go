// Package memory provides an in-process store backend, used for tests and for
// running the content server without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

type key struct {
	kind models.Kind
	id   string
}

// Backend keeps records in a map. It is safe for concurrent use.
type Backend struct {
	mu      sync.RWMutex
	records map[key]store.Record
	order   []key
}

var _ store.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{records: make(map[key]store.Record)}
}

func clone(rec store.Record) store.Record {
	rec.Data = append([]byte(nil), rec.Data...)
	return rec
}

func (b *Backend) List(_ context.Context, kind models.Kind) ([]store.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []store.Record{}
	for _, k := range b.order {
		if k.kind == kind {
			out = append(out, clone(b.records[k]))
		}
	}
	return out, nil
}

func (b *Backend) Get(_ context.Context, kind models.Kind, id string) (store.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[key{kind, id}]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: %s %q", constants.ErrNotFound, kind, id)
	}
	return clone(rec), nil
}

func (b *Backend) FindBySlug(_ context.Context, kind models.Kind, slug string) (store.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, k := range b.order {
		if rec := b.records[k]; k.kind == kind && slug != "" && rec.Slug == slug {
			return clone(rec), nil
		}
	}
	return store.Record{}, fmt.Errorf("%w: %s slug %q", constants.ErrNotFound, kind, slug)
}

// slugTaken reports whether another record of the same kind holds rec's
// slug. The caller holds b.mu.
func (b *Backend) slugTaken(rec store.Record) bool {
	if rec.Slug == "" {
		return false
	}
	for k, other := range b.records {
		if k.kind == rec.Kind && k.id != rec.ID && other.Slug == rec.Slug {
			return true
		}
	}
	return false
}

func (b *Backend) Insert(_ context.Context, rec store.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{rec.Kind, rec.ID}
	if _, ok := b.records[k]; ok {
		return fmt.Errorf("%w: %s %q", constants.ErrConflict, rec.Kind, rec.ID)
	}
	if b.slugTaken(rec) {
		return fmt.Errorf("%w: %s slug %q", constants.ErrConflict, rec.Kind, rec.Slug)
	}
	b.records[k] = clone(rec)
	b.order = append(b.order, k)
	return nil
}

func (b *Backend) Replace(_ context.Context, rec store.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{rec.Kind, rec.ID}
	old, ok := b.records[k]
	if !ok {
		return fmt.Errorf("%w: %s %q", constants.ErrNotFound, rec.Kind, rec.ID)
	}
	if b.slugTaken(rec) {
		return fmt.Errorf("%w: %s slug %q", constants.ErrConflict, rec.Kind, rec.Slug)
	}
	rec = clone(rec)
	rec.CreatedAt = old.CreatedAt
	b.records[k] = rec
	return nil
}

func (b *Backend) Delete(_ context.Context, kind models.Kind, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{kind, id}
	if _, ok := b.records[k]; !ok {
		return fmt.Errorf("%w: %s %q", constants.ErrNotFound, kind, id)
	}
	delete(b.records, k)
	for i, o := range b.order {
		if o == k {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *Backend) Migrate(context.Context) error { return nil }

func (b *Backend) Close() error { return nil }
