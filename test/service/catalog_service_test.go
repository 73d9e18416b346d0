package service_test

import (
	"context"
	"errors"
	"testing"

	"crm-service/internal/models"
	"crm-service/internal/repository"
	"crm-service/internal/service"

	"github.com/google/uuid"
)

func catalogRepo(materials *MockMaterialRepo, products *MockProductRepo) *repository.Repository {
	return newRepo(nil, nil, materials, products)
}

func TestCreateMaterial_DuplicateGuard(t *testing.T) {
	materials := &MockMaterialRepo{
		GetByDetailsFunc: func(ctx context.Context, name, materialType, detail string) (*models.Material, error) {
			return &models.Material{ID: uuid.New(), Name: name}, nil
		},
	}
	svc := service.NewCatalogService(catalogRepo(materials, nil))

	_, err := svc.CreateMaterial(context.Background(), service.MaterialInput{
		Name:        "Бумага мелованная",
		CountInPack: 100,
	})
	if !errors.Is(err, service.ErrMaterialAlreadyExists) {
		t.Fatalf("err=%v, want ErrMaterialAlreadyExists", err)
	}
}

func TestCreateMaterial_Validation(t *testing.T) {
	svc := service.NewCatalogService(catalogRepo(nil, nil))
	ctx := context.Background()

	bad := []service.MaterialInput{
		{Name: "", CountInPack: 1},
		{Name: "Бумага", CountInPack: 0},
		{Name: "Бумага", CountInPack: 1, PackPriceCents: -1},
		{Name: "Бумага", CountInPack: 1, CountLeft: -5},
	}
	for i, in := range bad {
		if _, err := svc.CreateMaterial(ctx, in); !errors.Is(err, service.ErrInvalidAmount) {
			t.Fatalf("case %d: err=%v, want ErrInvalidAmount", i, err)
		}
	}
}

func TestAdjustStock_DisambiguatesZeroRows(t *testing.T) {
	id := uuid.New()

	// материал существует, значит ноль строк означает нехватку остатка
	materials := &MockMaterialRepo{
		AdjustStockFunc: func(ctx context.Context, _ uuid.UUID, delta int64) (int64, error) {
			return 0, nil
		},
		GetByIDFunc: func(ctx context.Context, _ uuid.UUID) (*models.Material, error) {
			return &models.Material{ID: id, CountLeft: 3}, nil
		},
	}
	svc := service.NewCatalogService(catalogRepo(materials, nil))
	if _, err := svc.AdjustStock(context.Background(), id, -10); !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("err=%v, want ErrInsufficientStock", err)
	}

	// материала нет вовсе
	missing := &MockMaterialRepo{
		AdjustStockFunc: func(ctx context.Context, _ uuid.UUID, delta int64) (int64, error) {
			return 0, nil
		},
	}
	svc = service.NewCatalogService(catalogRepo(missing, nil))
	if _, err := svc.AdjustStock(context.Background(), id, -10); !errors.Is(err, service.ErrMaterialNotFound) {
		t.Fatalf("err=%v, want ErrMaterialNotFound", err)
	}
}

func TestAdjustStock_AppliesDelta(t *testing.T) {
	id := uuid.New()
	count := int64(10)
	materials := &MockMaterialRepo{
		AdjustStockFunc: func(ctx context.Context, _ uuid.UUID, delta int64) (int64, error) {
			count += delta
			return 1, nil
		},
		GetByIDFunc: func(ctx context.Context, _ uuid.UUID) (*models.Material, error) {
			return &models.Material{ID: id, CountLeft: count}, nil
		},
	}
	svc := service.NewCatalogService(catalogRepo(materials, nil))

	mat, err := svc.AdjustStock(context.Background(), id, -4)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if mat.CountLeft != 6 {
		t.Fatalf("CountLeft = %d, want 6", mat.CountLeft)
	}
}

func TestCreateProduct_ChecksBOMAndTiers(t *testing.T) {
	materialID := uuid.New()

	svc := service.NewCatalogService(catalogRepo(&MockMaterialRepo{}, &MockProductRepo{}))
	ctx := context.Background()

	// неизвестный материал в спецификации
	_, err := svc.CreateProduct(ctx, service.ProductInput{
		Name:      "Визитки",
		Materials: []service.BOMRowInput{{MaterialID: materialID, PerUnitQuantity: 2}},
	})
	if !errors.Is(err, service.ErrMaterialNotFound) {
		t.Fatalf("err=%v, want ErrMaterialNotFound", err)
	}

	// битый диапазон тира
	_, err = svc.CreateProduct(ctx, service.ProductInput{
		Name:       "Визитки",
		PriceTiers: []service.PriceTierInput{{RangeStart: 10, RangeEnd: 5, PriceCents: 100}},
	})
	if !errors.Is(err, service.ErrInvalidPriceTier) {
		t.Fatalf("err=%v, want ErrInvalidPriceTier", err)
	}
}

func TestDeleteMaterial_NotFound(t *testing.T) {
	svc := service.NewCatalogService(catalogRepo(&MockMaterialRepo{}, nil))
	if err := svc.DeleteMaterial(context.Background(), uuid.New()); !errors.Is(err, service.ErrMaterialNotFound) {
		t.Fatalf("err=%v, want ErrMaterialNotFound", err)
	}
}

func TestUpdateProduct_ReplacesTiers(t *testing.T) {
	productID := uuid.New()
	var replaced []models.ProductPriceTier

	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, _ uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID, Name: "Визитки"}, nil
		},
		ReplaceTiersFunc: func(ctx context.Context, _ uuid.UUID, tiers []models.ProductPriceTier) error {
			replaced = tiers
			return nil
		},
	}
	svc := service.NewCatalogService(catalogRepo(nil, products))

	tiers := []service.PriceTierInput{
		{RangeStart: 1, RangeEnd: 100, PriceCents: 5000},
		{RangeStart: 101, RangeEnd: 149, PriceCents: 4500},
	}
	if _, err := svc.UpdateProduct(context.Background(), productID, service.ProductPatch{PriceTiers: &tiers}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if len(replaced) != 2 || replaced[1].PriceCents != 4500 {
		t.Fatalf("tiers not replaced: %+v", replaced)
	}
}
