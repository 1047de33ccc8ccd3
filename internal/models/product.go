package models

import (
	"github.com/shopspring/decimal"
)

// PlaceholderThumbnail is substituted when a product listing carries no image.
const PlaceholderThumbnail = "/placeholder-image.png"

// Category is a product category as returned by the category endpoint.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"categoryName"`
}

// Product is a catalog product summary. Monetary values use decimal to avoid
// float drift when summing cart totals.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Thumbnail   string
	// Images always has the thumbnail first; the list endpoint only carries
	// a thumbnail, detail endpoints may append more.
	Images   []string
	Category Category
	StoreID  string
	Quantity int
}

// CartLine is one product entry inside a server-grouped cart response.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
