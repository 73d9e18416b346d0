package service

import (
	"context"
	"strings"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/repository"

	"github.com/google/uuid"
)

type MaterialInput struct {
	Name           string
	MaterialType   string
	Detail         string
	Description    string
	PackPriceCents int64
	UnitPriceCents int64
	CountInPack    int64
	CountLeft      int64
}

type MaterialPatch struct {
	Name           *string
	MaterialType   *string
	Detail         *string
	Description    *string
	PackPriceCents *int64
	UnitPriceCents *int64
	CountInPack    *int64
	Status         *models.MaterialStatus
}

type BOMRowInput struct {
	MaterialID      uuid.UUID
	PerUnitQuantity int64
}

type PriceTierInput struct {
	RangeStart  int64
	RangeEnd    int64
	PriceCents  int64
	Description string
}

type ProductInput struct {
	Name        string
	Size        string
	Detail      string
	Description string
	Materials   []BOMRowInput
	PriceTiers  []PriceTierInput
}

type ProductPatch struct {
	Name        *string
	Size        *string
	Detail      *string
	Description *string
	Status      *models.ProductStatus
	// nil — не трогать, пустой срез — очистить
	Materials  *[]BOMRowInput
	PriceTiers *[]PriceTierInput
}

// CatalogService — справочники: материалы со складскими остатками и
// изделия со спецификацией и тирами цен. Остаток материала меняется
// только дельтой.
type CatalogService interface {
	CreateMaterial(ctx context.Context, in MaterialInput) (*models.Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	ListMaterials(ctx context.Context, f repository.MaterialListFilter) ([]models.Material, int64, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, patch MaterialPatch) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*models.Material, error)

	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	return &catalogService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *catalogService) CreateMaterial(ctx context.Context, in MaterialInput) (*models.Material, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.PackPriceCents < 0 || in.UnitPriceCents < 0 || in.CountInPack < 1 || in.CountLeft < 0 {
		return nil, ErrInvalidAmount
	}

	existing, err := s.repo.Materials.GetByDetails(ctx, name, in.MaterialType, in.Detail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMaterialAlreadyExists
	}

	now := s.now()
	mat := &models.Material{
		Name:           name,
		MaterialType:   strings.TrimSpace(in.MaterialType),
		Detail:         strings.TrimSpace(in.Detail),
		Description:    strings.TrimSpace(in.Description),
		Status:         models.MaterialActive,
		PackPriceCents: in.PackPriceCents,
		UnitPriceCents: in.UnitPriceCents,
		CountInPack:    in.CountInPack,
		CountLeft:      in.CountLeft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Materials.Create(ctx, mat); err != nil {
		return nil, err
	}
	return mat, nil
}

func (s *catalogService) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	mat, err := s.repo.Materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, ErrMaterialNotFound
	}
	return mat, nil
}

func (s *catalogService) ListMaterials(ctx context.Context, f repository.MaterialListFilter) ([]models.Material, int64, error) {
	return s.repo.Materials.List(ctx, f)
}

func (s *catalogService) UpdateMaterial(ctx context.Context, id uuid.UUID, patch MaterialPatch) (*models.Material, error) {
	mat, err := s.repo.Materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, ErrMaterialNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.MaterialType != nil {
		fields["material_type"] = strings.TrimSpace(*patch.MaterialType)
	}
	if patch.Detail != nil {
		fields["detail"] = strings.TrimSpace(*patch.Detail)
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.PackPriceCents != nil {
		fields["pack_price_cents"] = *patch.PackPriceCents
	}
	if patch.UnitPriceCents != nil {
		fields["unit_price_cents"] = *patch.UnitPriceCents
	}
	if patch.CountInPack != nil {
		fields["count_in_pack"] = *patch.CountInPack
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}

	if len(fields) == 0 {
		return mat, nil
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Materials.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Materials.GetByID(ctx, id)
}

func (s *catalogService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Materials.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMaterialNotFound
	}
	return nil
}

// AdjustStock применяет дельту одной атомарной командой; ноль затронутых
// строк означает либо отсутствующий материал, либо уход остатка в минус.
func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*models.Material, error) {
	rows, err := s.repo.Materials.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		exists, err := s.repo.Materials.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists == nil {
			return nil, ErrMaterialNotFound
		}
		return nil, ErrInsufficientStock
	}
	return s.repo.Materials.GetByID(ctx, id)
}

func validateTiers(tiers []PriceTierInput) error {
	for _, t := range tiers {
		if t.RangeStart < 1 || t.RangeEnd < t.RangeStart || t.PriceCents < 0 {
			return ErrInvalidPriceTier
		}
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateTiers(in.PriceTiers); err != nil {
		return nil, err
	}

	for _, row := range in.Materials {
		mat, err := s.repo.Materials.GetByID(ctx, row.MaterialID)
		if err != nil {
			return nil, err
		}
		if mat == nil {
			return nil, ErrMaterialNotFound
		}
	}

	now := s.now()
	prod := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Size:        strings.TrimSpace(in.Size),
		Detail:      strings.TrimSpace(in.Detail),
		Description: strings.TrimSpace(in.Description),
		Status:      models.ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, row := range in.Materials {
		prod.Materials = append(prod.Materials, models.ProductMaterial{
			MaterialID:      row.MaterialID,
			PerUnitQuantity: row.PerUnitQuantity,
		})
	}
	for _, t := range in.PriceTiers {
		prod.PriceTiers = append(prod.PriceTiers, models.ProductPriceTier{
			RangeStart:  t.RangeStart,
			RangeEnd:    t.RangeEnd,
			PriceCents:  t.PriceCents,
			Description: t.Description,
		})
	}

	if err := s.repo.Products.Create(ctx, prod); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, prod.ID)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, ErrProductNotFound
	}
	return prod, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	prod, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Size != nil {
		fields["size"] = strings.TrimSpace(*patch.Size)
	}
	if patch.Detail != nil {
		fields["detail"] = strings.TrimSpace(*patch.Detail)
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	if patch.Materials != nil {
		rows := make([]models.ProductMaterial, 0, len(*patch.Materials))
		for _, row := range *patch.Materials {
			mat, err := s.repo.Materials.GetByID(ctx, row.MaterialID)
			if err != nil {
				return nil, err
			}
			if mat == nil {
				return nil, ErrMaterialNotFound
			}
			rows = append(rows, models.ProductMaterial{
				MaterialID:      row.MaterialID,
				PerUnitQuantity: row.PerUnitQuantity,
			})
		}
		if err := s.repo.Products.ReplaceMaterials(ctx, id, rows); err != nil {
			return nil, err
		}
	}

	if patch.PriceTiers != nil {
		if err := validateTiers(*patch.PriceTiers); err != nil {
			return nil, err
		}
		tiers := make([]models.ProductPriceTier, 0, len(*patch.PriceTiers))
		for _, t := range *patch.PriceTiers {
			tiers = append(tiers, models.ProductPriceTier{
				RangeStart:  t.RangeStart,
				RangeEnd:    t.RangeEnd,
				PriceCents:  t.PriceCents,
				Description: t.Description,
			})
		}
		if err := s.repo.Products.ReplaceTiers(ctx, id, tiers); err != nil {
			return nil, err
		}
	}

	return s.repo.Products.GetByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}
