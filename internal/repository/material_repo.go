package repository

import (
	"context"
	"errors"

	"crm-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialListFilter struct {
	MaterialType *string
	Search       string
	SortBy       string // name | material_type | count_left | price
	SortOrder    string
	Limit        int
	Offset       int
}

type MaterialRepo interface {
	Create(ctx context.Context, m *models.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetByDetails(ctx context.Context, name, materialType, detail string) (*models.Material, error)
	List(ctx context.Context, f MaterialListFilter) ([]models.Material, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepo(db *gorm.DB) MaterialRepo { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var mat models.Material
	err := r.db.WithContext(ctx).First(&mat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mat, err
}

func (r *materialRepo) GetByDetails(ctx context.Context, name, materialType, detail string) (*models.Material, error) {
	var mat models.Material
	err := r.db.WithContext(ctx).
		First(&mat, "name = ? AND material_type = ? AND detail = ?", name, materialType, detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mat, err
}

var materialSortFields = map[string]string{
	"name":          "name",
	"material_type": "material_type",
	"count_left":    "count_left",
	"price":         "pack_price_cents",
}

func (r *materialRepo) List(ctx context.Context, f MaterialListFilter) ([]models.Material, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Material{})

	if f.MaterialType != nil {
		q = q.Where("material_type = ?", *f.MaterialType)
	}
	if f.Search != "" {
		q = q.Where("name ILIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField, ok := materialSortFields[f.SortBy]
	if !ok {
		sortField = "name"
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

	var list []models.Material
	err := q.Order(sortField + " " + dir).Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *materialRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Material{}).Where("id = ?", id).Updates(fields).Error
}

func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Material{})
	return tx.RowsAffected > 0, tx.Error
}

// AdjustStock — коммутативное изменение остатка одной командой UPDATE.
// Условие в WHERE не даёт увести остаток в минус при параллельных
// списаниях; ноль затронутых строк значит «не хватило» либо «нет такого
// материала» — разбирает сервис.
func (r *materialRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ? AND count_left + ? >= 0", id, delta).
		Update("count_left", gorm.Expr("count_left + ?", delta))
	return tx.RowsAffected, tx.Error
}
