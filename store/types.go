// Package store is the persistence-side model: rows as a database layer
// would load and save them.
package store

import (
	"time"

	"graph-caster/enum"
)

// Entity carries the columns every stored row has.
type Entity struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
type Product struct {
	Entity
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Inventory   int    `json:"inventory_count"`
}

// Customer represents the user placing orders.
type Customer struct {
	Entity
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address"`
	IsActive bool    `json:"is_active"`
}

// Order represents a transaction made by a customer.
type Order struct {
	Entity
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"` // Has-Many relationship
	OrderedAt  time.Time   `json:"ordered_at"`
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"` // Redundant but useful for history if product name changes
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatusEnum lists the order statuses in lifecycle order.
var OrderStatusEnum = enum.MustDeclare(StatusPending, StatusPaid, StatusShipped, StatusCancelled)
