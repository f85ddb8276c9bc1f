package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/domain/models"
	"github.com/shopspring/decimal"
)

// DemoOrderID идентификатор заранее оплаченного демонстрационного заказа
var DemoOrderID = uuid.MustParse("5b0e3c1e-7d4a-4c55-9a53-3f0d7f3c8a42")

// DefaultProducts возвращает каталог витрины.
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:       "sku42",
			Name:     "Meal",
			Price:    decimal.RequireFromString("5.50"),
			Currency: "EUR",
		},
	}
}

// DemoOrders возвращает заказы, с которыми стартует хранилище в памяти.
func DemoOrders() []models.Order {
	return []models.Order{
		{
			ID:           DemoOrderID,
			ItemID:       "sku43",
			Quantity:     2,
			Amount:       decimal.RequireFromString("11.00"),
			Currency:     "EUR",
			Authorized:   true,
			InstrumentID: "d77ef398fae483c5ebf94697584ccbbc57883d845bd87ae7",
			CreatedAt:    time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
