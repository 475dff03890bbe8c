package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/raynott/storefront/internal/models"
)

// PriceMaxOpen is the "no upper bound" sentinel the backend understands.
const PriceMaxOpen = 99999

// ProductFilters mirrors the listing query parameters. Default values
// (empty search, category "All", full price range) are not encoded.
type ProductFilters struct {
	Search   string
	Category string
	PriceMin int
	PriceMax int
}

func (f ProductFilters) Query() url.Values {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != "All" {
		params.Set("category", f.Category)
	}
	max := f.PriceMax
	if max == 0 {
		max = PriceMaxOpen
	}
	if f.PriceMin > 0 || max < PriceMaxOpen {
		params.Set("price_min", strconv.Itoa(f.PriceMin))
		params.Set("price_max", strconv.Itoa(max))
	}
	return params
}

func (c *Client) ListProducts(ctx context.Context, token string, filters ProductFilters) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", token, filters.Query(), nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, token, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), token, nil, nil, &product); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// CreateProduct asks the backend to create a sample product. The backend
// fills in every field itself; admin only.
func (c *Client) CreateProduct(ctx context.Context, token string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/products", token, nil, nil, &product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil, nil); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
