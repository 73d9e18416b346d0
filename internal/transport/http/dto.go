package http

import (
	"time"

	"crm-service/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type CreateOrderRequest struct {
	Customer    string `json:"customer"`
	Description string `json:"description"`
}

type AppendPaymentRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type AddLineItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

type UpdateLineItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type SetActualUsageRequest struct {
	ActualUsage int64 `json:"actual_usage"`
}

type AddCostRequest struct {
	Description string `json:"description"`
	CostCents   int64  `json:"cost_cents"`
}

type AdjustStockRequest struct {
	Delta int64 `json:"delta"`
}

type OrderItemMaterialResponse struct {
	ID                     uuid.UUID `json:"id"`
	MaterialID             uuid.UUID `json:"material_id"`
	MaterialName           string    `json:"material_name"`
	MaterialType           string    `json:"material_type"`
	PerUnitQuantity        int64     `json:"per_unit_quantity"`
	BudgetedUsage          int64     `json:"budgeted_usage"`
	ActualUsage            int64     `json:"actual_usage"`
	VarianceUnits          int64     `json:"variance_units"`
	MaterialUnitPriceCents int64     `json:"material_unit_price_cents"`
	BudgetedCostCents      int64     `json:"budgeted_cost_cents"`
	ActualCostCents        int64     `json:"actual_cost_cents"`
}

type OrderItemResponse struct {
	ID             uuid.UUID                   `json:"id"`
	ProductID      uuid.UUID                   `json:"product_id"`
	ProductName    string                      `json:"product_name"`
	ProductSize    string                      `json:"product_size,omitempty"`
	Quantity       int64                       `json:"quantity"`
	UnitPriceCents int64                       `json:"unit_price_cents"`
	SubtotalCents  int64                       `json:"subtotal_cents"`
	Materials      []OrderItemMaterialResponse `json:"materials"`
}

type OrderCostResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	CostCents   int64     `json:"cost_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type UsageSummaryResponse struct {
	TotalBudgeted int64 `json:"total_budgeted"`
	TotalActual   int64 `json:"total_actual"`
	OverusedCount int   `json:"overused_count"`
}

// OrderResponse — полный агрегат заказа. Все производные суммы считаются
// при каждом ответе, клиент их никогда не досчитывает сам.
type OrderResponse struct {
	ID          uuid.UUID `json:"id"`
	Customer    string    `json:"customer"`
	Description string    `json:"description,omitempty"`
	Status      int       `json:"status"`
	StatusName  string    `json:"status_name"`

	Items []OrderItemResponse `json:"items"`
	Costs []OrderCostResponse `json:"costs"`

	LineItemsTotalCents int64 `json:"line_items_total_cents"`
	CostsTotalCents     int64 `json:"costs_total_cents"`
	TotalPriceCents     int64 `json:"total_price_cents"`
	MaterialsPriceCents int64 `json:"materials_price_cents"`
	PaidCents           int64 `json:"paid_cents"`
	RemainderCents      int64 `json:"remainder_cents"`
	OverpaymentCents    int64 `json:"overpayment_cents"`

	UsageSummary UsageSummaryResponse `json:"usage_summary"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

func mapOrderToResponse(o *models.Order) OrderResponse {
	usage := o.UsageSummary()
	return OrderResponse{
		ID:          o.ID,
		Customer:    o.Customer,
		Description: o.Description,
		Status:      int(o.Status),
		StatusName:  o.Status.String(),
		Items:       lo.Map(o.Items, func(it models.OrderItem, _ int) OrderItemResponse { return mapItemToResponse(it) }),
		Costs:       lo.Map(o.Costs, func(c models.OrderCost, _ int) OrderCostResponse { return mapCostToResponse(c) }),

		LineItemsTotalCents: o.LineItemsTotalCents(),
		CostsTotalCents:     o.CostsTotalCents(),
		TotalPriceCents:     o.TotalPriceCents(),
		MaterialsPriceCents: o.MaterialsPriceCents(),
		PaidCents:           o.PaidCents,
		RemainderCents:      o.RemainderCents(),
		OverpaymentCents:    o.OverpaymentCents(),

		UsageSummary: UsageSummaryResponse{
			TotalBudgeted: usage.TotalBudgeted,
			TotalActual:   usage.TotalActual,
			OverusedCount: usage.OverusedCount,
		},

		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		ConfirmedAt: o.ConfirmedAt,
		ReadyAt:     o.ReadyAt,
		CompletedAt: o.CompletedAt,
		CanceledAt:  o.CanceledAt,
	}
}

func mapItemToResponse(it models.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:             it.ID,
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		ProductSize:    it.ProductSize,
		Quantity:       it.Quantity,
		UnitPriceCents: it.UnitPriceCents,
		SubtotalCents:  it.SubtotalCents(),
		Materials: lo.Map(it.Materials, func(m models.OrderItemMaterial, _ int) OrderItemMaterialResponse {
			return OrderItemMaterialResponse{
				ID:                     m.ID,
				MaterialID:             m.MaterialID,
				MaterialName:           m.MaterialName,
				MaterialType:           m.MaterialType,
				PerUnitQuantity:        m.PerUnitQuantity,
				BudgetedUsage:          m.BudgetedUsage,
				ActualUsage:            m.ActualUsage,
				VarianceUnits:          m.VarianceUnits(),
				MaterialUnitPriceCents: m.MaterialUnitPriceCents,
				BudgetedCostCents:      m.BudgetedCostCents(),
				ActualCostCents:        m.ActualCostCents(),
			}
		}),
	}
}

func mapCostToResponse(c models.OrderCost) OrderCostResponse {
	return OrderCostResponse{
		ID:          c.ID,
		Description: c.Description,
		CostCents:   c.CostCents,
		CreatedAt:   c.CreatedAt,
	}
}

type CreateMaterialRequest struct {
	Name           string `json:"name"`
	MaterialType   string `json:"material_type"`
	Detail         string `json:"detail"`
	Description    string `json:"description"`
	PackPriceCents int64  `json:"pack_price_cents"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CountInPack    int64  `json:"count_in_pack"`
	CountLeft      int64  `json:"count_left"`
}

type UpdateMaterialRequest struct {
	Name           *string `json:"name"`
	MaterialType   *string `json:"material_type"`
	Detail         *string `json:"detail"`
	Description    *string `json:"description"`
	PackPriceCents *int64  `json:"pack_price_cents"`
	UnitPriceCents *int64  `json:"unit_price_cents"`
	CountInPack    *int64  `json:"count_in_pack"`
	Status         *int    `json:"status"`
}

type MaterialResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	MaterialType   string    `json:"material_type"`
	Detail         string    `json:"detail,omitempty"`
	Description    string    `json:"description,omitempty"`
	Status         int       `json:"status"`
	PackPriceCents int64     `json:"pack_price_cents"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	CountInPack    int64     `json:"count_in_pack"`
	CountLeft      int64     `json:"count_left"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MaterialListResponse struct {
	Materials []MaterialResponse `json:"materials"`
	Total     int64              `json:"total"`
}

func mapMaterialToResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:             m.ID,
		Name:           m.Name,
		MaterialType:   m.MaterialType,
		Detail:         m.Detail,
		Description:    m.Description,
		Status:         int(m.Status),
		PackPriceCents: m.PackPriceCents,
		UnitPriceCents: m.UnitPriceCents,
		CountInPack:    m.CountInPack,
		CountLeft:      m.CountLeft,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type BOMRowRequest struct {
	MaterialID      uuid.UUID `json:"material_id"`
	PerUnitQuantity int64     `json:"per_unit_quantity"`
}

type PriceTierRequest struct {
	RangeStart  int64  `json:"range_start"`
	RangeEnd    int64  `json:"range_end"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	Name        string             `json:"name"`
	Size        string             `json:"size"`
	Detail      string             `json:"detail"`
	Description string             `json:"description"`
	Materials   []BOMRowRequest    `json:"materials"`
	PriceTiers  []PriceTierRequest `json:"price_tiers"`
}

type UpdateProductRequest struct {
	Name        *string             `json:"name"`
	Size        *string             `json:"size"`
	Detail      *string             `json:"detail"`
	Description *string             `json:"description"`
	Status      *int                `json:"status"`
	Materials   *[]BOMRowRequest    `json:"materials"`
	PriceTiers  *[]PriceTierRequest `json:"price_tiers"`
}

type BOMRowResponse struct {
	MaterialID      uuid.UUID `json:"material_id"`
	PerUnitQuantity int64     `json:"per_unit_quantity"`
}

type PriceTierResponse struct {
	RangeStart  int64  `json:"range_start"`
	RangeEnd    int64  `json:"range_end"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description,omitempty"`
}

type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Size        string              `json:"size"`
	Detail      string              `json:"detail,omitempty"`
	Description string              `json:"description,omitempty"`
	Status      int                 `json:"status"`
	Materials   []BOMRowResponse    `json:"materials"`
	PriceTiers  []PriceTierResponse `json:"price_tiers"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

func mapProductToResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Size:        p.Size,
		Detail:      p.Detail,
		Description: p.Description,
		Status:      int(p.Status),
		Materials: lo.Map(p.Materials, func(m models.ProductMaterial, _ int) BOMRowResponse {
			return BOMRowResponse{MaterialID: m.MaterialID, PerUnitQuantity: m.PerUnitQuantity}
		}),
		PriceTiers: lo.Map(p.PriceTiers, func(t models.ProductPriceTier, _ int) PriceTierResponse {
			return PriceTierResponse{
				RangeStart:  t.RangeStart,
				RangeEnd:    t.RangeEnd,
				PriceCents:  t.PriceCents,
				Description: t.Description,
			}
		}),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type CreateExpenseRequest struct {
	Name        string `json:"name"`
	ExpenseType string `json:"expense_type"`
	Periodicity string `json:"periodicity"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	ActualDate  string `json:"actual_date"` // YYYY-MM-DD
}

type UpdateExpenseRequest struct {
	Name        *string `json:"name"`
	ExpenseType *string `json:"expense_type"`
	Periodicity *string `json:"periodicity"`
	Description *string `json:"description"`
	AmountCents *int64  `json:"amount_cents"`
	ActualDate  *string `json:"actual_date"`
}

type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ExpenseType string    `json:"expense_type"`
	Periodicity string    `json:"periodicity,omitempty"`
	Description string    `json:"description,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	ActualDate  string    `json:"actual_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    int64             `json:"total"`
}

func mapExpenseToResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Name:        e.Name,
		ExpenseType: e.ExpenseType,
		Periodicity: e.Periodicity,
		Description: e.Description,
		AmountCents: e.AmountCents,
		ActualDate:  e.ActualDate.Format("2006-01-02"),
		CreatedAt:   e.CreatedAt,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
