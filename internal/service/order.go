package service

import (
	"context"

	"crm-service/internal/models"
	"crm-service/internal/repository"

	"github.com/google/uuid"
)

type CreateOrderInput struct {
	Customer    string
	Description string
}

// OrderService — все команды и запросы жизненного цикла заказа. Каждая
// мутация возвращает полный перечитанный агрегат: клиент никогда не
// собирает состояние из частичных ответов.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)

	ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkOrderReady(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)

	AppendPayment(ctx context.Context, id uuid.UUID, amountCents int64) (*models.Order, error)

	AddLineItem(ctx context.Context, orderID, productID uuid.UUID, quantity int64) (*models.Order, error)
	UpdateLineItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int64) (*models.Order, error)
	RecalculateLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error)
	RemoveLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error)

	SetActualMaterialUsage(ctx context.Context, orderID, itemID, materialID uuid.UUID, actualUsage int64) (*models.Order, error)

	AddCost(ctx context.Context, orderID uuid.UUID, description string, costCents int64) (*models.Order, error)
	RemoveCost(ctx context.Context, orderID, costID uuid.UUID) (*models.Order, error)
}
