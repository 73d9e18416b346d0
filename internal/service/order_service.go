package service

import (
	"context"
	"strings"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/repository"

	"github.com/google/uuid"
)

const (
	customerNameMin = 3
	customerNameMax = 45
)

type orderService struct {
	repo    *repository.Repository
	pricing PricingProvider
	events  EventBus
	now     func() time.Time
}

func NewOrderService(repo *repository.Repository, pricing PricingProvider, events EventBus) OrderService {
	return &orderService{
		repo:    repo,
		pricing: pricing,
		events:  events,
		now:     time.Now,
	}
}

// getOrder перечитывает полный агрегат; отсутствие строки — доменная
// ошибка, а не nil.
func (s *orderService) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	customer := strings.TrimSpace(in.Customer)
	if len([]rune(customer)) < customerNameMin || len([]rune(customer)) > customerNameMax {
		return nil, ErrCustomerNameInvalid
	}

	now := s.now()
	ord := &models.Order{
		Customer:    customer,
		Description: strings.TrimSpace(in.Description),
		Status:      models.OrderStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Orders.Create(ctx, ord); err != nil {
		return nil, err
	}

	ord, err := s.getOrder(ctx, ord.ID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderID:   ord.ID,
			Customer:  ord.Customer,
			CreatedAt: ord.CreatedAt,
		})
	}
	return ord, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.getOrder(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	return s.repo.Orders.List(ctx, f)
}

// transition применяет действие из таблицы переходов и проставляет
// фазовую дату. Проверка легальности выполняется до какой-либо записи.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, action models.OrderAction, stampColumn string) (*models.Order, error) {
	ord, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := ord.Status.Next(action)
	if !ok {
		return nil, ErrInvalidTransition
	}

	oldStatus := ord.Status
	stamped := map[string]any{stampColumn: s.now()}
	if err := s.repo.Orders.UpdateStatus(ctx, id, next, stamped); err != nil {
		return nil, err
	}

	ord, err = s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
			OrderID:   ord.ID,
			OldStatus: oldStatus.String(),
			NewStatus: ord.Status.String(),
			ChangedAt: s.now(),
		})
	}
	return ord, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.ActionConfirm, "confirmed_at")
}

func (s *orderService) MarkOrderReady(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.ActionMarkReady, "ready_at")
}

// CompleteOrder — чисто статусный переход: оплату он не проверяет,
// недоплата и переплата видны через RemainderCents/OverpaymentCents.
func (s *orderService) CompleteOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.ActionComplete, "completed_at")
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.ActionCancel, "canceled_at")
}

func (s *orderService) AppendPayment(ctx context.Context, id uuid.UUID, amountCents int64) (*models.Order, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	ord, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ord.Status.AcceptsPayments() {
		return nil, ErrOrderClosed
	}

	if err := s.repo.Orders.AddPayment(ctx, id, amountCents); err != nil {
		return nil, err
	}

	ord, err = s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishPaymentAppended(ctx, PaymentAppendedEvent{
			OrderID:        ord.ID,
			AmountCents:    amountCents,
			PaidTotalCents: ord.PaidCents,
			AppendedAt:     s.now(),
		})
	}
	return ord, nil
}

// AddLineItem фиксирует цену по тиру и снимает снимок спецификации
// изделия: план и факт расхода стартуют с perUnit × quantity. Остаток
// материалов на складе здесь не трогается — списание идёт отдельной
// складской операцией.
func (s *orderService) AddLineItem(ctx context.Context, orderID, productID uuid.UUID, quantity int64) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	product, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	unitPrice, err := s.pricing.UnitPriceCents(product, quantity)
	if err != nil {
		return nil, err
	}

	item := &models.OrderItem{
		OrderID:        orderID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		ProductSize:    product.Size,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
		CreatedAt:      s.now(),
	}

	for _, bom := range product.Materials {
		mat, err := s.repo.Materials.GetByID(ctx, bom.MaterialID)
		if err != nil {
			return nil, err
		}
		if mat == nil {
			return nil, ErrMaterialNotFound
		}
		budget := bom.PerUnitQuantity * quantity
		item.Materials = append(item.Materials, models.OrderItemMaterial{
			MaterialID:             mat.ID,
			MaterialName:           mat.Name,
			MaterialType:           mat.MaterialType,
			PerUnitQuantity:        bom.PerUnitQuantity,
			BudgetedUsage:          budget,
			ActualUsage:            budget,
			MaterialUnitPriceCents: mat.UnitPriceCents,
		})
	}

	if err := s.repo.OrderItems.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, orderID)
}

// UpdateLineItemQuantity меняет только количество. Цена и плановый
// расход остаются снимком на момент добавления; их пересчёт — отдельная
// явная команда RecalculateLineItem.
func (s *orderService) UpdateLineItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int64) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	item, err := s.repo.OrderItems.GetByID(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrLineItemNotFound
	}

	if err := s.repo.OrderItems.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, orderID)
}

// RecalculateLineItem заново выбирает тир цены под текущее количество и
// пересчитывает плановый расход. Фактический расход не трогается.
func (s *orderService) RecalculateLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	item, err := s.repo.OrderItems.GetByID(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrLineItemNotFound
	}

	product, err := s.repo.Products.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	unitPrice, err := s.pricing.UnitPriceCents(product, item.Quantity)
	if err != nil {
		return nil, err
	}

	err = s.repo.Orders.WithTx(ctx, func(_ repository.OrderRepo, txItems repository.OrderItemRepo) error {
		if err := txItems.UpdateUnitPrice(ctx, itemID, unitPrice); err != nil {
			return err
		}
		for _, row := range item.Materials {
			budget := row.PerUnitQuantity * item.Quantity
			if err := txItems.UpdateMaterialBudget(ctx, row.ID, budget); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getOrder(ctx, orderID)
}

func (s *orderService) RemoveLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	rows, err := s.repo.OrderItems.Delete(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrLineItemNotFound
	}
	return s.getOrder(ctx, orderID)
}

func (s *orderService) SetActualMaterialUsage(ctx context.Context, orderID, itemID, materialID uuid.UUID, actualUsage int64) (*models.Order, error) {
	if actualUsage < 0 {
		return nil, ErrInvalidUsage
	}

	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ord.Status.AllowsUsageEdits() {
		return nil, ErrUsageEditNotAllowed
	}

	item, err := s.repo.OrderItems.GetByID(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrLineItemNotFound
	}

	rows, err := s.repo.OrderItems.UpdateMaterialActualUsage(ctx, itemID, materialID, actualUsage)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrMaterialNotFound
	}
	return s.getOrder(ctx, orderID)
}

func (s *orderService) AddCost(ctx context.Context, orderID uuid.UUID, description string, costCents int64) (*models.Order, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrCostDescriptionEmpty
	}
	if costCents < 0 {
		return nil, ErrInvalidAmount
	}

	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	cost := &models.OrderCost{
		OrderID:     orderID,
		Description: description,
		CostCents:   costCents,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Orders.CreateCost(ctx, cost); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, orderID)
}

func (s *orderService) RemoveCost(ctx context.Context, orderID, costID uuid.UUID) (*models.Order, error) {
	ord, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	rows, err := s.repo.Orders.DeleteCost(ctx, orderID, costID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCostNotFound
	}
	return s.getOrder(ctx, orderID)
}
