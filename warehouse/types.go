// Package warehouse is the API-side model exposed to clients.
package warehouse

import (
	"time"

	"graph-caster/enum"
)

//go:generate go tool stringer -type=Status -linecomment -output=status_string.go

// Status is the lifecycle state of an order.
type Status int

const (
	StatusPending   Status = iota // PENDING
	StatusPaid                    // PAID
	StatusShipped                 // SHIPPED
	StatusCancelled               // CANCELLED
)

// StatusEnum lists the statuses in lifecycle order.
var StatusEnum = enum.MustDeclare(StatusPending, StatusPaid, StatusShipped, StatusCancelled)

// Customer represents a store customer/user.
type Customer struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
}

// Product represents a sellable item in the store.
type Product struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // in cents (minor currency unit)
	Stock       int    `json:"stock"`
}

// Order represents a customer's purchase.
type Order struct {
	ID          uint         `json:"id"`
	CustomerID  uint         `json:"customer_id"`
	OrderNumber string       `json:"order_number"`
	Status      Status       `json:"status"`
	TotalAmount int64        `json:"total_amount"` // in cents
	Currency    string       `json:"currency"`
	Items       []*OrderItem `json:"items"`
	PlacedAt    *time.Time   `json:"placed_at,omitempty"`
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`  // price at time of purchase (in cents)
	TotalPrice int64  `json:"total_price"` // UnitPrice * Quantity
}
