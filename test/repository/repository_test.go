package repository_test

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/migrate"
	"crm-service/internal/models"
	"crm-service/internal/repository"
	"crm-service/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateCRMDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOrderRepo_CRUD_And_List(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewOrderRepo(db)

	ctx := context.Background()

	ord := &models.Order{Customer: "Иван Петров", Description: "визитки к пятнице"}
	if err := repo.Create(ctx, ord); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ok, err := repo.Exists(ctx, ord.ID); err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(ctx, ord.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if got.Status != models.OrderStatusCreated {
		t.Fatalf("new order status = %v", got.Status)
	}

	// отсутствующий id возвращает nil, nil
	missing, err := repo.GetByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("missing order: %v %v", missing, err)
	}

	// UpdateStatus с фазовой датой
	now := time.Now()
	if err := repo.UpdateStatus(ctx, ord.ID, models.OrderStatusInProgress, map[string]any{"confirmed_at": now}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got2, _ := repo.GetByID(ctx, ord.ID)
	if got2.Status != models.OrderStatusInProgress || got2.ConfirmedAt == nil {
		t.Fatalf("UpdateStatus mismatch: %+v", got2)
	}

	// AddPayment аккумулирует
	if err := repo.AddPayment(ctx, ord.ID, 4000); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if err := repo.AddPayment(ctx, ord.ID, 2500); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	got3, _ := repo.GetByID(ctx, ord.ID)
	if got3.PaidCents != 6500 {
		t.Fatalf("PaidCents = %d, want 6500", got3.PaidCents)
	}

	// List с фильтром и пагинацией
	for i := 0; i < 3; i++ {
		_ = repo.Create(ctx, &models.Order{Customer: "Пётр Сидоров"})
	}
	st := models.OrderStatusCreated
	list, total, err := repo.List(ctx, repository.OrderListFilter{Status: &st, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d, want 2", len(list))
	}
}

func TestOrderRepo_Costs(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewOrderRepo(db)
	ctx := context.Background()

	ord := &models.Order{Customer: "Иван Петров"}
	if err := repo.Create(ctx, ord); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cost := &models.OrderCost{OrderID: ord.ID, Description: "доставка", CostCents: 1500}
	if err := repo.CreateCost(ctx, cost); err != nil {
		t.Fatalf("CreateCost: %v", err)
	}

	got, _ := repo.GetByID(ctx, ord.ID)
	if len(got.Costs) != 1 || got.CostsTotalCents() != 1500 {
		t.Fatalf("costs mismatch: %+v", got.Costs)
	}

	rows, err := repo.DeleteCost(ctx, ord.ID, cost.ID)
	if err != nil || rows != 1 {
		t.Fatalf("DeleteCost: rows=%d err=%v", rows, err)
	}
	rows2, _ := repo.DeleteCost(ctx, ord.ID, cost.ID)
	if rows2 != 0 {
		t.Fatalf("second DeleteCost rows = %d, want 0", rows2)
	}
}

func TestOrderItemRepo_WithMaterials(t *testing.T) {
	db := setupDB(t)
	orders := repository.NewOrderRepo(db)
	items := repository.NewOrderItemRepo(db)
	ctx := context.Background()

	ord := &models.Order{Customer: "Иван Петров"}
	if err := orders.Create(ctx, ord); err != nil {
		t.Fatalf("create order: %v", err)
	}

	materialID := uuid.New()
	item := &models.OrderItem{
		OrderID:        ord.ID,
		ProductID:      uuid.New(),
		ProductName:    "Визитки",
		Quantity:       10,
		UnitPriceCents: 5000,
		Materials: []models.OrderItemMaterial{
			{
				MaterialID:             materialID,
				MaterialName:           "Бумага мелованная",
				PerUnitQuantity:        2,
				BudgetedUsage:          20,
				ActualUsage:            20,
				MaterialUnitPriceCents: 100,
			},
		},
	}
	if err := items.Create(ctx, item); err != nil {
		t.Fatalf("Create item: %v", err)
	}

	got, err := items.GetByID(ctx, ord.ID, item.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if len(got.Materials) != 1 || got.Materials[0].BudgetedUsage != 20 {
		t.Fatalf("materials cascade mismatch: %+v", got.Materials)
	}

	// факт правится по паре (позиция, материал)
	rows, err := items.UpdateMaterialActualUsage(ctx, item.ID, materialID, 25)
	if err != nil || rows != 1 {
		t.Fatalf("UpdateMaterialActualUsage: rows=%d err=%v", rows, err)
	}
	got2, _ := items.GetByID(ctx, ord.ID, item.ID)
	if got2.Materials[0].ActualUsage != 25 || got2.Materials[0].BudgetedUsage != 20 {
		t.Fatalf("usage mismatch: %+v", got2.Materials[0])
	}

	// агрегат считает себестоимость по факту
	full, _ := orders.GetByID(ctx, ord.ID)
	if full.MaterialsPriceCents() != 2500 {
		t.Fatalf("MaterialsPriceCents = %d, want 2500", full.MaterialsPriceCents())
	}
	if full.TotalPriceCents() != 50000 {
		t.Fatalf("TotalPriceCents = %d, want 50000", full.TotalPriceCents())
	}

	rows, err = items.UpdateMaterialActualUsage(ctx, item.ID, uuid.New(), 5)
	if err != nil || rows != 0 {
		t.Fatalf("unknown material: rows=%d err=%v", rows, err)
	}

	deleted, err := items.Delete(ctx, ord.ID, item.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("Delete: rows=%d err=%v", deleted, err)
	}
}

func TestMaterialRepo_AdjustStock(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMaterialRepo(db)
	ctx := context.Background()

	mat := &models.Material{
		Name:           "Бумага мелованная",
		MaterialType:   "бумага",
		Status:         models.MaterialActive,
		PackPriceCents: 50000,
		UnitPriceCents: 100,
		CountInPack:    500,
		CountLeft:      10,
	}
	if err := repo.Create(ctx, mat); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.AdjustStock(ctx, mat.ID, -4)
	if err != nil || rows != 1 {
		t.Fatalf("AdjustStock -4: rows=%d err=%v", rows, err)
	}

	// уход в минус блокируется условием в WHERE
	rows, err = repo.AdjustStock(ctx, mat.ID, -7)
	if err != nil || rows != 0 {
		t.Fatalf("AdjustStock -7: rows=%d err=%v", rows, err)
	}

	rows, err = repo.AdjustStock(ctx, mat.ID, 100)
	if err != nil || rows != 1 {
		t.Fatalf("AdjustStock +100: rows=%d err=%v", rows, err)
	}

	got, _ := repo.GetByID(ctx, mat.ID)
	if got.CountLeft != 106 {
		t.Fatalf("CountLeft = %d, want 106", got.CountLeft)
	}

	// дубликат по (name, type, detail)
	dup, err := repo.GetByDetails(ctx, "Бумага мелованная", "бумага", "")
	if err != nil || dup == nil {
		t.Fatalf("GetByDetails: %v %v", dup, err)
	}
}

func TestProductRepo_TiersAndBOM(t *testing.T) {
	db := setupDB(t)
	materials := repository.NewMaterialRepo(db)
	products := repository.NewProductRepo(db)
	ctx := context.Background()

	mat := &models.Material{
		Name:         "Бумага мелованная",
		MaterialType: "бумага",
		Status:       models.MaterialActive,
		CountInPack:  500,
	}
	if err := materials.Create(ctx, mat); err != nil {
		t.Fatalf("create material: %v", err)
	}

	prod := &models.Product{
		Name:   "Визитки",
		Size:   "90x50",
		Status: models.ProductActive,
		Materials: []models.ProductMaterial{
			{MaterialID: mat.ID, PerUnitQuantity: 2},
		},
		PriceTiers: []models.ProductPriceTier{
			{RangeStart: 101, RangeEnd: 149, PriceCents: 4500},
			{RangeStart: 1, RangeEnd: 100, PriceCents: 5000},
		},
	}
	if err := products.Create(ctx, prod); err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := products.GetByID(ctx, prod.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	// тиры приходят отсортированными по началу диапазона
	if len(got.PriceTiers) != 2 || got.PriceTiers[0].RangeStart != 1 {
		t.Fatalf("tiers order mismatch: %+v", got.PriceTiers)
	}
	if len(got.Materials) != 1 {
		t.Fatalf("bom mismatch: %+v", got.Materials)
	}

	// полная замена тиров
	if err := products.ReplaceTiers(ctx, prod.ID, []models.ProductPriceTier{
		{ProductID: prod.ID, RangeStart: 1, RangeEnd: 1000, PriceCents: 4000},
	}); err != nil {
		t.Fatalf("ReplaceTiers: %v", err)
	}
	got2, _ := products.GetByID(ctx, prod.ID)
	if len(got2.PriceTiers) != 1 || got2.PriceTiers[0].PriceCents != 4000 {
		t.Fatalf("tiers not replaced: %+v", got2.PriceTiers)
	}
}

func TestExpenseRepo_CRUD_And_Stats(t *testing.T) {
	db := setupDB(t)
	expenses := repository.NewExpenseRepo(db)
	stats := repository.NewStatsRepo(db)
	ctx := context.Background()

	march := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	for i, amount := range []int64{5000, 3000} {
		exp := &models.Expense{
			Name:        "Аренда",
			ExpenseType: "rent",
			Periodicity: "monthly",
			AmountCents: amount,
			ActualDate:  march.AddDate(0, 0, i*10),
		}
		if err := expenses.Create(ctx, exp); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	typ := "rent"
	list, total, err := expenses.List(ctx, repository.ExpenseListFilter{ExpenseType: &typ})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("List: len=%d total=%d err=%v", len(list), total, err)
	}

	rows, err := stats.ExpensesByDay(ctx,
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ExpensesByDay: %v", err)
	}
	if len(rows) != 2 || rows[0].AmountCents != 5000 {
		t.Fatalf("stats rows mismatch: %+v", rows)
	}
}

func TestStatsRepo_OrdersByDay(t *testing.T) {
	db := setupDB(t)
	orders := repository.NewOrderRepo(db)
	items := repository.NewOrderItemRepo(db)
	stats := repository.NewStatsRepo(db)
	ctx := context.Background()

	ord := &models.Order{Customer: "Иван Петров"}
	if err := orders.Create(ctx, ord); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := items.Create(ctx, &models.OrderItem{
		OrderID:        ord.ID,
		ProductID:      uuid.New(),
		ProductName:    "Визитки",
		Quantity:       10,
		UnitPriceCents: 5000,
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := orders.CreateCost(ctx, &models.OrderCost{OrderID: ord.ID, Description: "доставка", CostCents: 1500}); err != nil {
		t.Fatalf("create cost: %v", err)
	}

	from := time.Now().AddDate(0, 0, -1)
	to := time.Now().AddDate(0, 0, 1)
	rows, err := stats.OrdersByDay(ctx, from, to)
	if err != nil {
		t.Fatalf("OrdersByDay: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows len = %d, want 1", len(rows))
	}
	// сумма дня = позиции + доп. расходы, как и в агрегате
	if rows[0].OrdersCount != 1 || rows[0].AmountCents != 51500 {
		t.Fatalf("day row mismatch: %+v", rows[0])
	}
}
