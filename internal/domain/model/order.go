package model

import "time"

// OrderStatus describes order fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus describes payment settlement state.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMethodWallet is the default payment method for generated orders.
const PaymentMethodWallet = "wallet"

// OrderItem is one order line.
type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is a concrete dated order. Orders materialized from a standing order
// carry StandingOrderID; they are otherwise identical to manual orders.
type Order struct {
	ID              int64
	Number          string
	CustomerID      int64
	Items           []OrderItem
	TotalAmount     float64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	DeliveryDate    time.Time
	Notes           string
	StandingOrderID *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
