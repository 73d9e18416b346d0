package service

import "errors"

var (
	// Нарушения жизненного цикла заказа
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOrderClosed         = errors.New("order is closed")
	ErrUsageEditNotAllowed = errors.New("actual usage is editable only while order is in progress")

	// Некорректный ввод
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInvalidQuantity        = errors.New("quantity must be >= 1")
	ErrInvalidUsage           = errors.New("usage must be >= 0")
	ErrCustomerNameInvalid    = errors.New("customer name must be 3-45 characters")
	ErrCostDescriptionEmpty   = errors.New("cost description must not be empty")
	ErrNoPriceTierForQuantity = errors.New("product has no price tier for this quantity")
	ErrInvalidPriceTier       = errors.New("price tier range is invalid")

	// Отсутствующие сущности
	ErrOrderNotFound    = errors.New("order not found")
	ErrLineItemNotFound = errors.New("line item not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCostNotFound     = errors.New("order cost not found")
	ErrExpenseNotFound  = errors.New("expense not found")

	// Каталог
	ErrMaterialAlreadyExists = errors.New("such material already exists")
	ErrInsufficientStock     = errors.New("not enough material left")
)
