package models

// Чистые вычисления над агрегатом заказа. Каждая витрина (список,
// карточка, модалка) обязана считать суммы одними и теми же методами,
// поэтому ничего из посчитанного здесь не хранится в БД.

// SubtotalCents — стоимость позиции: цена за единицу × количество.
func (i OrderItem) SubtotalCents() int64 {
	return i.UnitPriceCents * i.Quantity
}

// VarianceUnits — отклонение факта от плана. Положительное значение —
// перерасход, отрицательное — экономия.
func (m OrderItemMaterial) VarianceUnits() int64 {
	return m.ActualUsage - m.BudgetedUsage
}

// BudgetedCostCents — плановая стоимость материала.
func (m OrderItemMaterial) BudgetedCostCents() int64 {
	return m.MaterialUnitPriceCents * m.BudgetedUsage
}

// ActualCostCents — фактическая стоимость материала.
func (m OrderItemMaterial) ActualCostCents() int64 {
	return m.MaterialUnitPriceCents * m.ActualUsage
}

// LineItemsTotalCents — сумма всех позиций заказа.
func (o Order) LineItemsTotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.SubtotalCents()
	}
	return total
}

// CostsTotalCents — сумма дополнительных расходов заказа.
func (o Order) CostsTotalCents() int64 {
	var total int64
	for _, c := range o.Costs {
		total += c.CostCents
	}
	return total
}

// TotalPriceCents — полная цена заказа: позиции плюс доп. расходы.
func (o Order) TotalPriceCents() int64 {
	return o.LineItemsTotalCents() + o.CostsTotalCents()
}

// MaterialsPriceCents — себестоимость материалов по фактическому
// расходу (не по плану): это учёт того, что реально потрачено.
func (o Order) MaterialsPriceCents() int64 {
	var total int64
	for _, it := range o.Items {
		for _, m := range it.Materials {
			total += m.ActualCostCents()
		}
	}
	return total
}

// RemainderCents — сколько осталось доплатить. Не бывает отрицательным:
// переплата отражается отдельно через OverpaymentCents.
func (o Order) RemainderCents() int64 {
	if rem := o.TotalPriceCents() - o.PaidCents; rem > 0 {
		return rem
	}
	return 0
}

// OverpaymentCents — переплата сверх полной цены заказа.
func (o Order) OverpaymentCents() int64 {
	if over := o.PaidCents - o.TotalPriceCents(); over > 0 {
		return over
	}
	return 0
}

// UsageSummary — сводка расхода материалов по заказу.
type UsageSummary struct {
	TotalBudgeted int64
	TotalActual   int64
	OverusedCount int
}

func (o Order) UsageSummary() UsageSummary {
	var s UsageSummary
	for _, it := range o.Items {
		for _, m := range it.Materials {
			s.TotalBudgeted += m.BudgetedUsage
			s.TotalActual += m.ActualUsage
			if m.VarianceUnits() > 0 {
				s.OverusedCount++
			}
		}
	}
	return s
}
