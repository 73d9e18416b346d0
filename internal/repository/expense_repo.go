package repository

import (
	"context"
	"errors"
	"time"

	"crm-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseListFilter struct {
	ExpenseType *string
	Periodicity *string
	DateFrom    *time.Time
	DateTo      *time.Time
	SortOrder   string
	Limit       int
	Offset      int
}

type ExpenseRepo interface {
	Create(ctx context.Context, e *models.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, f ExpenseListFilter) ([]models.Expense, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepo(db *gorm.DB) ExpenseRepo { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *models.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var exp models.Expense
	err := r.db.WithContext(ctx).First(&exp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &exp, err
}

func (r *expenseRepo) List(ctx context.Context, f ExpenseListFilter) ([]models.Expense, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Expense{})

	if f.ExpenseType != nil {
		q = q.Where("expense_type = ?", *f.ExpenseType)
	}
	if f.Periodicity != nil {
		q = q.Where("periodicity = ?", *f.Periodicity)
	}
	if f.DateFrom != nil {
		q = q.Where("actual_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("actual_date <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Expense
	err := q.Order("actual_date " + dir).Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *expenseRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Updates(fields).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	return tx.RowsAffected > 0, tx.Error
}
