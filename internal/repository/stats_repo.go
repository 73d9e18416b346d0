package repository

import (
	"context"
	"time"

	"crm-service/internal/models"

	"gorm.io/gorm"
)

// OrderDayRow — дневная сводка по заказам. Сумма дня считается из
// позиций и доп. расходов, потому что полная цена заказа в БД не
// хранится.
type OrderDayRow struct {
	Day         time.Time
	OrdersCount int64
	AmountCents int64
}

type ExpenseDayRow struct {
	Day           time.Time
	ExpensesCount int64
	AmountCents   int64
}

type StatsRepo interface {
	OrdersByDay(ctx context.Context, from, to time.Time) ([]OrderDayRow, error)
	ExpensesByDay(ctx context.Context, from, to time.Time) ([]ExpenseDayRow, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) StatsRepo { return &statsRepo{db: db} }

func (r *statsRepo) OrdersByDay(ctx context.Context, from, to time.Time) ([]OrderDayRow, error) {
	var rows []OrderDayRow
	err := r.db.WithContext(ctx).Raw(`
SELECT date(o.created_at)                                        AS day,
       COUNT(*)                                                  AS orders_count,
       COALESCE(SUM(COALESCE(i.items_total, 0) + COALESCE(c.costs_total, 0)), 0) AS amount_cents
FROM orders o
LEFT JOIN (
    SELECT order_id, SUM(unit_price_cents * quantity) AS items_total
    FROM order_items GROUP BY order_id
) i ON i.order_id = o.id
LEFT JOIN (
    SELECT order_id, SUM(cost_cents) AS costs_total
    FROM order_costs GROUP BY order_id
) c ON c.order_id = o.id
WHERE o.created_at >= ? AND o.created_at < ?
GROUP BY date(o.created_at)
ORDER BY day
`, from, to).Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) ExpensesByDay(ctx context.Context, from, to time.Time) ([]ExpenseDayRow, error) {
	var rows []ExpenseDayRow
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("actual_date AS day, COUNT(*) AS expenses_count, COALESCE(SUM(amount_cents),0) AS amount_cents").
		Where("actual_date >= ? AND actual_date < ?", from, to).
		Group("actual_date").
		Order("day").
		Scan(&rows).Error
	return rows, err
}
