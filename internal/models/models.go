package models

import (
	"time"

	"github.com/google/uuid"
)

// Order — агрегат заказа. Денежные суммы (totalPrice, materialsPrice,
// remainder) не хранятся в БД, а выводятся методами из finance.go при
// каждом чтении.
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Customer    string      `gorm:"type:text;not null"`
	Description string      `gorm:"type:text"`
	Status      OrderStatus `gorm:"type:int;not null;default:0;index"`
	PaidCents   int64       `gorm:"not null;default:0"`

	CreatedAt   time.Time  `gorm:"not null;default:now();index"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()"`
	ConfirmedAt *time.Time `gorm:"type:timestamptz"`
	ReadyAt     *time.Time `gorm:"type:timestamptz"`
	CompletedAt *time.Time `gorm:"type:timestamptz"`
	CanceledAt  *time.Time `gorm:"type:timestamptz"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Costs []OrderCost `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem — позиция заказа. Цена и наименование фиксируются на момент
// добавления и не зависят от последующих правок каталога.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_product"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_product"`
	ProductName    string    `gorm:"type:text;not null"`
	ProductSize    string    `gorm:"type:text"`
	Quantity       int64     `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Materials []OrderItemMaterial `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderItemMaterial — расход материала в рамках одной позиции.
// BudgetedUsage — план, снятый при добавлении позиции; ActualUsage —
// фактический расход, правится только пока заказ IN_PROGRESS.
type OrderItemMaterial struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID            uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_item_materials"`
	MaterialID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_item_materials"`
	MaterialName           string    `gorm:"type:text;not null"`
	MaterialType           string    `gorm:"type:text"`
	PerUnitQuantity        int64     `gorm:"not null;default:0"`
	BudgetedUsage          int64     `gorm:"not null;default:0"`
	ActualUsage            int64     `gorm:"not null;default:0"`
	MaterialUnitPriceCents int64     `gorm:"not null;default:0"`
}

func (OrderItemMaterial) TableName() string { return "order_item_materials" }

type OrderCost struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:text;not null"`
	CostCents   int64     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderCost) TableName() string { return "order_costs" }

type MaterialStatus int

const (
	MaterialInactive MaterialStatus = 0
	MaterialActive   MaterialStatus = 1
)

// Material — складской материал. CountLeft меняется только дельтами
// (AdjustStock), прямой перезаписи остатка нет.
type Material struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"type:text;not null"`
	MaterialType string         `gorm:"type:text;not null;index"`
	Detail       string         `gorm:"type:text"`
	Description  string         `gorm:"type:text"`
	Status       MaterialStatus `gorm:"type:int;not null;default:1"`

	PackPriceCents int64 `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	CountInPack    int64 `gorm:"not null"`
	CountLeft      int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Material) TableName() string { return "materials" }

type ProductStatus int

const (
	ProductInactive ProductStatus = 0
	ProductActive   ProductStatus = 1
)

type Product struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string        `gorm:"type:text;not null"`
	Size        string        `gorm:"type:text;not null"`
	Detail      string        `gorm:"type:text"`
	Description string        `gorm:"type:text"`
	Status      ProductStatus `gorm:"type:int;not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Materials  []ProductMaterial  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PriceTiers []ProductPriceTier `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// ProductMaterial — строка спецификации изделия: сколько единиц
// материала уходит на одну единицу продукции.
type ProductMaterial struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_product_materials"`
	MaterialID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_product_materials"`
	PerUnitQuantity int64     `gorm:"not null;default:1"`
}

func (ProductMaterial) TableName() string { return "product_materials" }

type ProductPriceTier struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RangeStart  int64     `gorm:"not null"`
	RangeEnd    int64     `gorm:"not null"`
	PriceCents  int64     `gorm:"not null"`
	Description string    `gorm:"type:text"`
}

func (ProductPriceTier) TableName() string { return "product_price_tiers" }

// Contains сообщает, покрывает ли диапазон тира указанное количество.
func (t ProductPriceTier) Contains(quantity int64) bool {
	return t.RangeStart <= quantity && quantity <= t.RangeEnd
}

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	ExpenseType string    `gorm:"type:text;not null;index"`
	Periodicity string    `gorm:"type:text"`
	Description string    `gorm:"type:text"`
	AmountCents int64     `gorm:"not null"`
	ActualDate  time.Time `gorm:"type:date;not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Expense) TableName() string { return "expenses" }
