package model

import "time"

// Actor values recorded on OrderEvent.
const (
	ActorAdmin   = "admin"
	ActorGateway = "gateway"
	ActorSystem  = "system"
)

// OrderEvent is an append-only audit record of an order status transition.
// Every applied transition is logged regardless of which writer made it.
type OrderEvent struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	OrderID       uint          `json:"order_id" gorm:"not null;index"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null"`
	Actor         string        `json:"actor" gorm:"size:20;not null"`
	Note          string        `json:"note,omitempty" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at"`
}
