package store

import (
	"context"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

// ReadOnlyStore wraps a Store and rejects write operations while isReadOnly
// reports true. Reads always pass through.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

// NewReadOnlyStore creates a read-only wrapper for a store.
func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store.
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return constants.ErrReadOnly
	}
	return nil
}

func (r *ReadOnlyStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.CreateProduct(ctx, p)
}

func (r *ReadOnlyStore) UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.UpdateProduct(ctx, id, p)
}

func (r *ReadOnlyStore) DeleteProduct(ctx context.Context, id string) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteProduct(ctx, id)
}

func (r *ReadOnlyStore) SaveProject(ctx context.Context, p *models.Project) (*models.Project, bool, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, false, err
	}
	return r.Store.SaveProject(ctx, p)
}

func (r *ReadOnlyStore) DeleteProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.DeleteProjectBySlug(ctx, slug)
}

func (r *ReadOnlyStore) CreateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.CreateBlogPost(ctx, b)
}

func (r *ReadOnlyStore) UpdateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.Store.UpdateBlogPost(ctx, b)
}
