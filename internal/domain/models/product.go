package models

import "github.com/shopspring/decimal"

// Product представляет товар витрины
type Product struct {
	ID       string          `json:"id"`       // артикул, например sku42
	Name     string          `json:"name"`     // отображаемое название
	Price    decimal.Decimal `json:"price"`    // цена за единицу
	Currency string          `json:"currency"` // трёхбуквенный код валюты
}

// AmountFor считает сумму заказа: количество × цена, без налогов и скидок.
func (p *Product) AmountFor(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
