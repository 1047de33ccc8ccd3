package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vendora/vendora/internal/models"
)

// productWire is the lenient decode form of a product summary. The backend
// is inconsistent about id spellings and may omit the thumbnail entirely.
type productWire struct {
	ID          flexID          `json:"id"`
	AltID       flexID          `json:"_id"`
	Name        string          `json:"productName"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Thumbnail   string          `json:"thumbnail"`
	Quantity    int             `json:"quantity"`
	StoreID     flexID          `json:"store_id"`
	Category    struct {
		ID   flexID `json:"id"`
		Name string `json:"categoryName"`
	} `json:"category"`
}

func (w productWire) toModel() models.Product {
	id := w.ID.String()
	if id == "" {
		id = w.AltID.String()
	}

	thumbnail := w.Thumbnail
	if thumbnail == "" {
		thumbnail = models.PlaceholderThumbnail
	}

	return models.Product{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price,
		Thumbnail:   thumbnail,
		Images:      []string{thumbnail},
		Category: models.Category{
			ID:   w.Category.ID.String(),
			Name: w.Category.Name,
		},
		StoreID:  w.StoreID.String(),
		Quantity: w.Quantity,
	}
}

// ListProducts fetches the public product catalog. The endpoint returns a
// bare array and requires no authentication; responses go through the
// caching transport.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var wire []productWire
	if err := c.do(ctx, c.publicc, http.MethodGet, "/api/product/", "", nil, &wire); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(wire))
	for _, w := range wire {
		products = append(products, w.toModel())
	}

	return products, nil
}

// GetProduct fetches a single product's display details.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var resp struct {
		Status  int          `json:"status"`
		Product *productWire `json:"product"`
	}
	if err := c.do(ctx, c.publicc, http.MethodGet, "/api/product/display/"+productID, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	if resp.Product == nil {
		return nil, &Error{StatusCode: resp.Status, Message: "product not found"}
	}

	product := resp.Product.toModel()
	return &product, nil
}

// ProductRequest carries the seller product form. CategoryID references an
// existing category; the thumbnail and detail images upload as files in the
// same form.
type ProductRequest struct {
	Name          string
	Detail        string
	Price         decimal.Decimal
	CategoryID    string
	Quantity      int
	StoreID       string
	ThumbnailPath string
	ImagePaths    []string
}

func (r ProductRequest) form() (map[string]string, []formFile) {
	fields := map[string]string{
		"productName":    r.Name,
		"productDetail":  r.Detail,
		"price":          r.Price.String(),
		"category_id":    r.CategoryID,
		"remainQuantity": strconv.Itoa(r.Quantity),
	}
	if r.StoreID != "" {
		fields["store_id"] = r.StoreID
	}

	var files []formFile
	if r.ThumbnailPath != "" {
		files = append(files, formFile{field: "thumbnail", path: r.ThumbnailPath})
	}
	for _, path := range r.ImagePaths {
		files = append(files, formFile{field: "imageDetails[]", path: path})
	}

	return fields, files
}

// CreateProduct adds a product to the seller's storefront.
func (c *Client) CreateProduct(ctx context.Context, token string, req ProductRequest) error {
	fields, files := req.form()

	var resp successEnvelope
	if err := c.doMultipart(ctx, "/api/product/create", token, fields, files, &resp); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return resp.err()
}

// UpdateProduct replaces a seller product's details. The endpoint takes a
// POST even for updates so the form can carry replacement images.
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, req ProductRequest) error {
	fields, files := req.form()

	var resp successEnvelope
	if err := c.doMultipart(ctx, "/api/product/update/"+productID, token, fields, files, &resp); err != nil {
		return fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	return resp.err()
}

// DeleteProduct removes a product from the seller's storefront.
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	var resp successEnvelope
	if err := c.do(ctx, c.httpc, http.MethodDelete, "/api/product/delete/"+productID, token, nil, &resp); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}

	return resp.err()
}

// ListCategories fetches the public category list.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Status   int `json:"status"`
		Category []struct {
			ID   flexID `json:"id"`
			Name string `json:"categoryName"`
		} `json:"category"`
	}
	if err := c.do(ctx, c.publicc, http.MethodGet, "/api/category", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]models.Category, 0, len(resp.Category))
	for _, w := range resp.Category {
		categories = append(categories, models.Category{ID: w.ID.String(), Name: w.Name})
	}

	return categories, nil
}
