package service

import (
	"crm-service/internal/models"
)

// PricingProvider выбирает цену за единицу для количества, заказанного
// в позиции. Провайдер вынесен в интерфейс, чтобы тесты могли подменять
// прайс без каталога.
type PricingProvider interface {
	UnitPriceCents(product *models.Product, quantity int64) (int64, error)
}

// TierPricing — прайс по диапазонам количества: берётся первый тир,
// в чей [start, end] попадает количество. Промаха достаточно для отказа:
// никакого отката к минимальной цене нет.
type TierPricing struct{}

func (TierPricing) UnitPriceCents(product *models.Product, quantity int64) (int64, error) {
	for _, tier := range product.PriceTiers {
		if tier.Contains(quantity) {
			return tier.PriceCents, nil
		}
	}
	return 0, ErrNoPriceTierForQuantity
}
