package client

import (
	"context"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

// ProductGateway persists products. Products are keyed by their own id.
type ProductGateway struct{ c *Client }

func (c *Client) Products() ProductGateway { return ProductGateway{c} }

func (g ProductGateway) List(ctx context.Context) ([]*models.Product, error) {
	return g.c.ListProducts(ctx)
}

func (g ProductGateway) Get(ctx context.Context, id string) (*models.Product, error) {
	return g.c.GetProduct(ctx, id)
}

func (g ProductGateway) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return g.c.CreateProduct(ctx, p)
}

func (g ProductGateway) Update(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	return g.c.UpdateProduct(ctx, id, p)
}

func (g ProductGateway) Remove(ctx context.Context, p *models.Product) error {
	return g.c.DeleteProduct(ctx, p.ID)
}

// ProjectGateway persists projects. The server assigns ids; reads and deletes
// address a project by slug.
type ProjectGateway struct{ c *Client }

func (c *Client) Projects() ProjectGateway { return ProjectGateway{c} }

func (g ProjectGateway) List(ctx context.Context) ([]*models.Project, error) {
	return g.c.ListProjects(ctx)
}

func (g ProjectGateway) Get(ctx context.Context, slug string) (*models.Project, error) {
	return g.c.GetProject(ctx, slug)
}

func (g ProjectGateway) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	cp := *p
	cp.ID = ""
	return g.c.SaveProject(ctx, &cp)
}

func (g ProjectGateway) Update(ctx context.Context, id string, p *models.Project) (*models.Project, error) {
	if id == "" {
		return nil, constants.ErrMissingID
	}
	cp := *p
	cp.ID = id
	return g.c.SaveProject(ctx, &cp)
}

func (g ProjectGateway) Remove(ctx context.Context, p *models.Project) error {
	return g.c.DeleteProject(ctx, p.Slug)
}

// BlogGateway persists blog posts. The API offers no way to delete a post.
type BlogGateway struct{ c *Client }

func (c *Client) BlogPosts() BlogGateway { return BlogGateway{c} }

func (g BlogGateway) List(ctx context.Context) ([]*models.BlogPost, error) {
	return g.c.ListBlogPosts(ctx)
}

func (g BlogGateway) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	return g.c.GetBlogPost(ctx, id)
}

func (g BlogGateway) Create(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	return g.c.CreateBlogPost(ctx, b)
}

func (g BlogGateway) Update(ctx context.Context, id string, b *models.BlogPost) (*models.BlogPost, error) {
	if id == "" {
		return nil, constants.ErrMissingID
	}
	cp := *b
	cp.ID = id
	return g.c.UpdateBlogPost(ctx, &cp)
}

func (g BlogGateway) Remove(context.Context, *models.BlogPost) error {
	return constants.ErrMethodNotAvailable
}
