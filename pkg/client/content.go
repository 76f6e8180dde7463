package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

// Products

func (c *Client) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var result []*models.Product
	if err := c.call(ctx, http.MethodGet, constants.ProductPath, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var result models.Product
	if err := c.call(ctx, http.MethodGet, constants.ProductPath+"/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProduct creates a product under its own id.
func (c *Client) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var result models.Product
	if err := c.call(ctx, http.MethodPost, constants.ProductPath, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	var result models.Product
	if err := c.call(ctx, http.MethodPut, constants.ProductPath+"/"+url.PathEscape(id), p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, constants.ProductPath+"/"+url.PathEscape(id), nil, nil)
}

// Projects

func (c *Client) ListProjects(ctx context.Context) ([]*models.Project, error) {
	var result []*models.Project
	if err := c.call(ctx, http.MethodGet, constants.ProjectsPath, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetProject fetches a project by slug.
func (c *Client) GetProject(ctx context.Context, slug string) (*models.Project, error) {
	var result models.Project
	if err := c.call(ctx, http.MethodGet, constants.ProjectsPath+"/"+url.PathEscape(slug), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveProject creates p when its ID is empty and updates the project with that
// ID otherwise.
func (c *Client) SaveProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	var result models.Project
	if err := c.call(ctx, http.MethodPost, constants.ProjectsPath, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProject deletes a project by slug.
func (c *Client) DeleteProject(ctx context.Context, slug string) error {
	return c.call(ctx, http.MethodDelete, constants.ProjectsPath+"/"+url.PathEscape(slug), nil, nil)
}

// Blog posts

func (c *Client) ListBlogPosts(ctx context.Context) ([]*models.BlogPost, error) {
	var result []*models.BlogPost
	if err := c.call(ctx, http.MethodGet, constants.BlogPath, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error) {
	var result models.BlogPost
	if err := c.call(ctx, http.MethodGet, constants.BlogPath+"/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	var result models.BlogPost
	if err := c.call(ctx, http.MethodPost, constants.BlogPath, b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBlogPost updates the post identified by b.ID.
func (c *Client) UpdateBlogPost(ctx context.Context, b *models.BlogPost) (*models.BlogPost, error) {
	var result models.BlogPost
	if err := c.call(ctx, http.MethodPut, constants.BlogPath, b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
