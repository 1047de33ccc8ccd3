package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted by the order endpoint.
const (
	PaymentCOD     = "COD"
	PaymentBanking = "BANKING"
)

// ShippingAddress is the delivery address collected at checkout.
type ShippingAddress struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Street    string `json:"street" yaml:"street"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	Country   string `json:"country" yaml:"country"`
	Zipcode   string `json:"zipcode" yaml:"zipcode"`
}

// OrderItem is a single line of an order, always bound to the owning store.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	StoreID   string `json:"store_id"`
}

// Order is a placed order as returned by the order history endpoints.
type Order struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
