// Package store persists the site's content documents for the content server.
//
// [Store] is the typed surface the HTTP handlers use. [DocumentStore]
// implements it over a [Backend], which keeps opaque JSON records keyed by
// document kind and id. Backends exist for memory, PostgreSQL (GORM) and
// SurrealDB; swapping them does not change the API's behavior:
//   - product ids are chosen by the author and must be unique
//   - project and blog post ids are assigned on creation
//   - project slugs are unique; the backend enforces it
//   - timestamps are assigned by the store
//   - a missing record is reported as constants.ErrNotFound
//
// [ReadOnlyStore] rejects writes while the server is in read-only mode.
package store

import (
	"context"
	"time"

	"github.com/lumenworks/contentkit/pkg/models"
)

// Store is the typed document store behind the content API.
type Store interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	// SaveProject creates p when p.ID is empty and updates it otherwise.
	SaveProject(ctx context.Context, p *models.Project) (*models.Project, bool, error)
	DeleteProjectBySlug(ctx context.Context, slug string) (*models.Project, error)

	ListBlogPosts(ctx context.Context) ([]*models.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Record is one stored document.
type Record struct {
	Kind      models.Kind
	ID        string
	Slug      string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Backend keeps records. List returns records in creation order. A non-empty
// Slug is unique per kind.
type Backend interface {
	List(ctx context.Context, kind models.Kind) ([]Record, error)
	Get(ctx context.Context, kind models.Kind, id string) (Record, error)
	FindBySlug(ctx context.Context, kind models.Kind, slug string) (Record, error)
	// Insert fails with constants.ErrConflict when the id or the slug is taken.
	Insert(ctx context.Context, rec Record) error
	// Replace overwrites slug, data and UpdatedAt of an existing record. It
	// fails with constants.ErrConflict when another record holds the slug.
	Replace(ctx context.Context, rec Record) error
	Delete(ctx context.Context, kind models.Kind, id string) error

	Migrate(ctx context.Context) error
	Close() error
}
