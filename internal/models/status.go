package models

// OrderStatus — числовой статус заказа. Нумерация унаследована от
// исторической схемы БД: значения 1 не существует, оно зарезервировано
// и никогда не присваивается.
type OrderStatus int

const (
	OrderStatusCreated    OrderStatus = 0
	OrderStatusInProgress OrderStatus = 2
	OrderStatusReady      OrderStatus = 3
	OrderStatusShipped    OrderStatus = 4
	OrderStatusCompleted  OrderStatus = 5
	OrderStatusCanceled   OrderStatus = 6
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusCreated:    "CREATED",
	OrderStatusInProgress: "IN_PROGRESS",
	OrderStatusReady:      "READY",
	OrderStatusShipped:    "SHIPPED",
	OrderStatusCompleted:  "COMPLETED",
	OrderStatusCanceled:   "CANCELED",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// Terminal сообщает, закрыт ли заказ: после COMPLETED и CANCELED
// платежи, позиции и расход материалов неизменяемы.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// OrderAction — команда перехода статуса.
type OrderAction string

const (
	ActionConfirm   OrderAction = "confirm"
	ActionMarkReady OrderAction = "ready"
	ActionComplete  OrderAction = "complete"
	ActionCancel    OrderAction = "cancel"
)

// Таблица переходов. SHIPPED намеренно не порождается ни одним
// действием: статус валиден (внешний workflow доставки), но из команд
// заказа в него не попасть. Отменить можно из любого нетерминального.
var transitions = map[OrderAction]map[OrderStatus]OrderStatus{
	ActionConfirm: {
		OrderStatusCreated: OrderStatusInProgress,
	},
	ActionMarkReady: {
		OrderStatusInProgress: OrderStatusReady,
	},
	ActionComplete: {
		OrderStatusReady: OrderStatusCompleted,
	},
	ActionCancel: {
		OrderStatusCreated:    OrderStatusCanceled,
		OrderStatusInProgress: OrderStatusCanceled,
		OrderStatusReady:      OrderStatusCanceled,
		OrderStatusShipped:    OrderStatusCanceled,
	},
}

// Next возвращает статус после применения действия. ok=false означает
// нелегальный переход; статус при этом не меняется.
func (s OrderStatus) Next(a OrderAction) (OrderStatus, bool) {
	next, ok := transitions[a][s]
	if !ok {
		return s, false
	}
	return next, true
}

// AcceptsPayments: платежи принимаются в любом нетерминальном статусе.
func (s OrderStatus) AcceptsPayments() bool {
	return s.Valid() && !s.Terminal()
}

// AllowsUsageEdits: фактический расход правится только в работе.
func (s OrderStatus) AllowsUsageEdits() bool {
	return s == OrderStatusInProgress
}
