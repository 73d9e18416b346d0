package repository

import (
	"context"
	"errors"

	"crm-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepo interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int64) error
	UpdateUnitPrice(ctx context.Context, itemID uuid.UUID, unitPriceCents int64) error
	Delete(ctx context.Context, orderID, itemID uuid.UUID) (int64, error)

	UpdateMaterialActualUsage(ctx context.Context, itemID, materialID uuid.UUID, actualUsage int64) (int64, error)
	UpdateMaterialBudget(ctx context.Context, rowID uuid.UUID, budgetedUsage int64) error
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

// Create пишет позицию вместе со строками материалов (каскад gorm).
func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderItemRepo) GetByID(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Materials").
		First(&item, "id = ? AND order_id = ?", itemID, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *orderItemRepo) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int64) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *orderItemRepo) UpdateUnitPrice(ctx context.Context, itemID uuid.UUID, unitPriceCents int64) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("unit_price_cents", unitPriceCents).Error
}

func (r *orderItemRepo) Delete(ctx context.Context, orderID, itemID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{})
	return tx.RowsAffected, tx.Error
}

// UpdateMaterialActualUsage адресует строку по паре (позиция, материал),
// как это делает внешний API.
func (r *orderItemRepo) UpdateMaterialActualUsage(ctx context.Context, itemID, materialID uuid.UUID, actualUsage int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.OrderItemMaterial{}).
		Where("order_item_id = ? AND material_id = ?", itemID, materialID).
		Update("actual_usage", actualUsage)
	return tx.RowsAffected, tx.Error
}

func (r *orderItemRepo) UpdateMaterialBudget(ctx context.Context, rowID uuid.UUID, budgetedUsage int64) error {
	return r.db.WithContext(ctx).Model(&models.OrderItemMaterial{}).
		Where("id = ?", rowID).
		Update("budgeted_usage", budgetedUsage).Error
}
