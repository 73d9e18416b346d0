package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"crm-service/internal/logger"
	"crm-service/internal/models"
	"crm-service/internal/repository"
	"crm-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Handler — HTTP-обвязка над сервисами. Бизнес-правила живут ниже,
// здесь только разбор запроса, маппинг ошибок и сериализация ответа.
type Handler struct {
	orders   service.OrderService
	catalog  service.CatalogService
	expenses service.ExpenseService
	stats    service.StatsService
}

func NewHandler(
	orders service.OrderService,
	catalog service.CatalogService,
	expenses service.ExpenseService,
	stats service.StatsService,
) *Handler {
	return &Handler{
		orders:   orders,
		catalog:  catalog,
		expenses: expenses,
		stats:    stats,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeServiceError переводит сентинелы сервисного слоя в HTTP-статусы:
// not found — 404, нарушение состояния — 409, плохой ввод — 400.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrLineItemNotFound),
		errors.Is(err, service.ErrMaterialNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCostNotFound),
		errors.Is(err, service.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, service.ErrUsageEditNotAllowed),
		errors.Is(err, service.ErrMaterialAlreadyExists),
		errors.Is(err, service.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidUsage),
		errors.Is(err, service.ErrCustomerNameInvalid),
		errors.Is(err, service.ErrCostDescriptionEmpty),
		errors.Is(err, service.ErrNoPriceTierForQuantity),
		errors.Is(err, service.ErrInvalidPriceTier):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		logger.L().Error("Необработанная ошибка сервиса", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// --- заказы ---

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderInput{
		Customer:    req.Customer,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.OrderListFilter{
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Limit:     queryInt(r, "limit", 20),
		Offset:    queryInt(r, "offset", 0),
	}
	if raw := q.Get("status"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || !models.OrderStatus(v).Valid() {
			writeError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
			return
		}
		st := models.OrderStatus(v)
		f.Status = &st
	}
	if raw := q.Get("customer"); raw != "" {
		f.Customer = &raw
	}
	if raw := q.Get("created_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		f.CreatedFrom = &t
	}
	if raw := q.Get("created_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		f.CreatedTo = &t
	}

	orders, total, err := h.orders.ListOrders(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{
		Orders: lo.Map(orders, func(o *models.Order, _ int) OrderResponse { return mapOrderToResponse(o) }),
		Total:  total,
	})
}

func (h *Handler) orderTransition(
	w http.ResponseWriter, r *http.Request,
	op func(r *http.Request, id uuid.UUID) (*models.Order, error),
) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	order, err := op(r, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.orderTransition(w, r, func(r *http.Request, id uuid.UUID) (*models.Order, error) {
		return h.orders.ConfirmOrder(r.Context(), id)
	})
}

func (h *Handler) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	h.orderTransition(w, r, func(r *http.Request, id uuid.UUID) (*models.Order, error) {
		return h.orders.MarkOrderReady(r.Context(), id)
	})
}

func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.orderTransition(w, r, func(r *http.Request, id uuid.UUID) (*models.Order, error) {
		return h.orders.CompleteOrder(r.Context(), id)
	})
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.orderTransition(w, r, func(r *http.Request, id uuid.UUID) (*models.Order, error) {
		return h.orders.CancelOrder(r.Context(), id)
	})
}

func (h *Handler) AppendPayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req AppendPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.AppendPayment(r.Context(), id, req.AmountCents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req AddLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.AddLineItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) UpdateLineItemQuantity(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	itemID, err := parseUUIDParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateLineItemQuantity(r.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) RecalculateLineItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	itemID, err := parseUUIDParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.orders.RecalculateLineItem(r.Context(), orderID, itemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	itemID, err := parseUUIDParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.orders.RemoveLineItem(r.Context(), orderID, itemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) SetActualMaterialUsage(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	itemID, err := parseUUIDParam(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	materialID, err := parseUUIDParam(r, "materialID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req SetActualUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.SetActualMaterialUsage(r.Context(), orderID, itemID, materialID, req.ActualUsage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) AddCost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req AddCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.AddCost(r.Context(), id, req.Description, req.CostCents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) RemoveCost(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	costID, err := parseUUIDParam(r, "costID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.orders.RemoveCost(r.Context(), orderID, costID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// --- материалы ---

func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	mat, err := h.catalog.CreateMaterial(r.Context(), service.MaterialInput{
		Name:           req.Name,
		MaterialType:   req.MaterialType,
		Detail:         req.Detail,
		Description:    req.Description,
		PackPriceCents: req.PackPriceCents,
		UnitPriceCents: req.UnitPriceCents,
		CountInPack:    req.CountInPack,
		CountLeft:      req.CountLeft,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapMaterialToResponse(mat))
}

func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	mat, err := h.catalog.GetMaterial(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMaterialToResponse(mat))
}

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.MaterialListFilter{
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Limit:     queryInt(r, "limit", 20),
		Offset:    queryInt(r, "offset", 0),
	}
	if raw := q.Get("material_type"); raw != "" {
		f.MaterialType = &raw
	}

	mats, total, err := h.catalog.ListMaterials(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MaterialListResponse{
		Materials: lo.Map(mats, func(m models.Material, _ int) MaterialResponse { return mapMaterialToResponse(&m) }),
		Total:     total,
	})
}

func (h *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req UpdateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	patch := service.MaterialPatch{
		Name:           req.Name,
		MaterialType:   req.MaterialType,
		Detail:         req.Detail,
		Description:    req.Description,
		PackPriceCents: req.PackPriceCents,
		UnitPriceCents: req.UnitPriceCents,
		CountInPack:    req.CountInPack,
	}
	if req.Status != nil {
		st := models.MaterialStatus(*req.Status)
		patch.Status = &st
	}

	mat, err := h.catalog.UpdateMaterial(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMaterialToResponse(mat))
}

func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.catalog.DeleteMaterial(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	mat, err := h.catalog.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMaterialToResponse(mat))
}

// --- изделия ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	prod, err := h.catalog.CreateProduct(r.Context(), service.ProductInput{
		Name:        req.Name,
		Size:        req.Size,
		Detail:      req.Detail,
		Description: req.Description,
		Materials:   mapBOMRows(req.Materials),
		PriceTiers:  mapTierInputs(req.PriceTiers),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProductToResponse(prod))
}

func mapBOMRows(rows []BOMRowRequest) []service.BOMRowInput {
	return lo.Map(rows, func(row BOMRowRequest, _ int) service.BOMRowInput {
		return service.BOMRowInput{MaterialID: row.MaterialID, PerUnitQuantity: row.PerUnitQuantity}
	})
}

func mapTierInputs(tiers []PriceTierRequest) []service.PriceTierInput {
	return lo.Map(tiers, func(t PriceTierRequest, _ int) service.PriceTierInput {
		return service.PriceTierInput{
			RangeStart:  t.RangeStart,
			RangeEnd:    t.RangeEnd,
			PriceCents:  t.PriceCents,
			Description: t.Description,
		}
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	prod, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(prod))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ProductListFilter{
		Search:     q.Get("search"),
		OnlyActive: q.Get("only_active") == "true",
		Limit:      queryInt(r, "limit", 20),
		Offset:     queryInt(r, "offset", 0),
	}

	prods, total, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductListResponse{
		Products: lo.Map(prods, func(p models.Product, _ int) ProductResponse { return mapProductToResponse(&p) }),
		Total:    total,
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	patch := service.ProductPatch{
		Name:        req.Name,
		Size:        req.Size,
		Detail:      req.Detail,
		Description: req.Description,
	}
	if req.Status != nil {
		st := models.ProductStatus(*req.Status)
		patch.Status = &st
	}
	if req.Materials != nil {
		rows := mapBOMRows(*req.Materials)
		patch.Materials = &rows
	}
	if req.PriceTiers != nil {
		tiers := mapTierInputs(*req.PriceTiers)
		patch.PriceTiers = &tiers
	}

	prod, err := h.catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(prod))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- расходы ---

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in := service.ExpenseInput{
		Name:        req.Name,
		ExpenseType: req.ExpenseType,
		Periodicity: req.Periodicity,
		Description: req.Description,
		AmountCents: req.AmountCents,
	}
	if req.ActualDate != "" {
		t, err := time.Parse("2006-01-02", req.ActualDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		in.ActualDate = t
	}

	exp, err := h.expenses.CreateExpense(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapExpenseToResponse(exp))
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	exp, err := h.expenses.GetExpense(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapExpenseToResponse(exp))
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ExpenseListFilter{
		SortOrder: q.Get("sort_order"),
		Limit:     queryInt(r, "limit", 20),
		Offset:    queryInt(r, "offset", 0),
	}
	if raw := q.Get("expense_type"); raw != "" {
		f.ExpenseType = &raw
	}
	if raw := q.Get("periodicity"); raw != "" {
		f.Periodicity = &raw
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		f.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		f.DateTo = &t
	}

	exps, total, err := h.expenses.ListExpenses(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExpenseListResponse{
		Expenses: lo.Map(exps, func(e models.Expense, _ int) ExpenseResponse { return mapExpenseToResponse(&e) }),
		Total:    total,
	})
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	patch := service.ExpensePatch{
		Name:        req.Name,
		ExpenseType: req.ExpenseType,
		Periodicity: req.Periodicity,
		Description: req.Description,
		AmountCents: req.AmountCents,
	}
	if req.ActualDate != nil {
		t, err := time.Parse("2006-01-02", *req.ActualDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		patch.ActualDate = &t
	}

	exp, err := h.expenses.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapExpenseToResponse(exp))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := h.expenses.DeleteExpense(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- статистика ---

func (h *Handler) MonthStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_year", "year is required")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_month", "month is required")
		return
	}

	stats, err := h.stats.MonthStatistics(r.Context(), year, month, q.Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
