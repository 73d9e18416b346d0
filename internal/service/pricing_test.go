package service

import (
	"errors"
	"testing"

	"crm-service/internal/models"
)

func TestTierPricing_UnitPriceCents(t *testing.T) {
	product := &models.Product{
		PriceTiers: []models.ProductPriceTier{
			{RangeStart: 1, RangeEnd: 100, PriceCents: 5000},
			{RangeStart: 101, RangeEnd: 149, PriceCents: 4500},
		},
	}
	p := TierPricing{}

	if price, err := p.UnitPriceCents(product, 50); err != nil || price != 5000 {
		t.Fatalf("qty=50: price=%d err=%v", price, err)
	}
	if price, err := p.UnitPriceCents(product, 101); err != nil || price != 4500 {
		t.Fatalf("qty=101: price=%d err=%v", price, err)
	}
	if price, err := p.UnitPriceCents(product, 149); err != nil || price != 4500 {
		t.Fatalf("qty=149: price=%d err=%v", price, err)
	}

	// промах мимо всех тиров — ошибка, отката к минимальной цене нет
	if _, err := p.UnitPriceCents(product, 150); !errors.Is(err, ErrNoPriceTierForQuantity) {
		t.Fatalf("qty=150: err=%v, want ErrNoPriceTierForQuantity", err)
	}
}

func TestTierPricing_NoTiers(t *testing.T) {
	p := TierPricing{}
	if _, err := p.UnitPriceCents(&models.Product{}, 1); !errors.Is(err, ErrNoPriceTierForQuantity) {
		t.Fatalf("err=%v, want ErrNoPriceTierForQuantity", err)
	}
}
