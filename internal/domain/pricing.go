package domain

import "github.com/shopspring/decimal"

// Pricing задаёт налог и стоимость доставки для итогов корзины.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// DefaultPricing: налог 18%, бесплатная доставка при сумме больше 75, иначе 8.99.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(75),
		FlatShippingFee:       decimal.RequireFromString("8.99"),
	}
}

// Totals — итоги корзины.
type Totals struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Totals считает налог и доставку от subtotal. Налог округляется до копеек.
func (p Pricing) Totals(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.Shipping(subtotal)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Shipping возвращает 0 для пустой корзины и для суммы выше порога, иначе фиксированный тариф.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

// CartTotals считает итоги для корзины.
func (p Pricing) CartTotals(c *Cart) Totals {
	t := p.Totals(c.Total())
	t.ItemCount = c.ItemCount()
	return t
}
