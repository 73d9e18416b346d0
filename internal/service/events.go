package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderCreatedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	Customer  string    `json:"customer"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

type PaymentAppendedEvent struct {
	OrderID        uuid.UUID `json:"order_id"`
	AmountCents    int64     `json:"amount_cents"`
	PaidTotalCents int64     `json:"paid_total_cents"`
	AppendedAt     time.Time `json:"appended_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error
	PublishPaymentAppended(ctx context.Context, e PaymentAppendedEvent) error
}
