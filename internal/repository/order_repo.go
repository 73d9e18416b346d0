package repository

import (
	"context"
	"errors"
	"time"

	"crm-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	Status      *models.OrderStatus
	Customer    *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string
	SortBy      string // created_at | customer | status
	SortOrder   string // asc | desc
	Limit       int
	Offset      int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, stampedAt map[string]any) error
	AddPayment(ctx context.Context, id uuid.UUID, amountCents int64) error

	CreateCost(ctx context.Context, c *models.OrderCost) error
	GetCost(ctx context.Context, orderID, costID uuid.UUID) (*models.OrderCost, error)
	DeleteCost(ctx context.Context, orderID, costID uuid.UUID) (int64, error)

	WithTx(ctx context.Context, fn func(txOrders OrderRepo, txItems OrderItemRepo) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC") }).
		Preload("Items.Materials").
		Preload("Costs").
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

var orderSortFields = map[string]string{
	"created_at": "created_at",
	"customer":   "customer",
	"status":     "status",
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Customer != nil {
		q = q.Where("customer = ?", *f.Customer)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	if f.Search != "" {
		q = q.Where("id::text = ? OR customer ILIKE ?", f.Search, "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField, ok := orderSortFields[f.SortBy]
	if !ok {
		sortField = "created_at"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Order
	err := q.Order(sortField + " " + dir).
		Limit(f.Limit).Offset(f.Offset).
		Preload("Items").
		Preload("Items.Materials").
		Preload("Costs").
		Find(&list).Error
	return list, total, err
}

func (r *orderRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

// UpdateStatus меняет статус и проставляет фазовую дату
// (confirmed_at/ready_at/completed_at/canceled_at) одним апдейтом.
func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, stampedAt map[string]any) error {
	upd := map[string]any{"status": status}
	for col, v := range stampedAt {
		upd[col] = v
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(upd).Error
}

// AddPayment — атомарное приращение, без read-modify-write.
func (r *orderRepo) AddPayment(ctx context.Context, id uuid.UUID, amountCents int64) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("paid_cents", gorm.Expr("paid_cents + ?", amountCents)).Error
}

func (r *orderRepo) CreateCost(ctx context.Context, c *models.OrderCost) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *orderRepo) GetCost(ctx context.Context, orderID, costID uuid.UUID) (*models.OrderCost, error) {
	var cost models.OrderCost
	err := r.db.WithContext(ctx).First(&cost, "id = ? AND order_id = ?", costID, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cost, err
}

func (r *orderRepo) DeleteCost(ctx context.Context, orderID, costID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", costID, orderID).
		Delete(&models.OrderCost{})
	return tx.RowsAffected, tx.Error
}

func (r *orderRepo) WithTx(ctx context.Context, fn func(txOrders OrderRepo, txItems OrderItemRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepo{db: tx}, &orderItemRepo{db: tx})
	})
}
