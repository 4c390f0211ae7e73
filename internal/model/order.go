package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment stage of an order. A single vocabulary is
// shared by the admin and payment-webhook writers: "confirmed" and
// "cancelled" are written by the payment path, the admin PUT accepts the
// five values reported by AdminSettable.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusConfirmed  OrderStatus = "confirmed"
)

// AdminSettable reports whether the status may be set through the admin
// order endpoint. "confirmed" is reserved for the payment gateway.
func (s OrderStatus) AdminSettable() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the gateway-reported payment state, distinct from the
// fulfillment status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Order is created at checkout and mutated by admin status updates and by
// payment webhooks. Orders are never deleted.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(20,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty" gorm:"size:255;index"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	User  User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the unit price at purchase time so historical invoices
// stay correct when catalog prices change.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null"`

	// Relations
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
