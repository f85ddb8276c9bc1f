package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order представляет заказ, созданный при отправке формы покупки.
// Заказ переходит из неавторизованного состояния в авторизованное ровно один раз,
// по вебхуку платёжного шлюза; обратного перехода нет.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       string          `json:"itemId"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Authorized   bool            `json:"authorized"`
	InstrumentID string          `json:"instrumentId,omitempty"` // заполняется после авторизации
	CreatedAt    time.Time       `json:"createdAt"`
}

// MarshalJSON отдаёт сумму числом с двумя знаками, как в ответе /orders.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{
		alias:  alias(o),
		Amount: json.Number(o.Amount.StringFixed(2)),
	})
}

// Authorize помечает заказ оплаченным и запоминает инструмент.
// Повторный вызов с тем же инструментом ничего не меняет.
func (o *Order) Authorize(instrumentID string) {
	o.InstrumentID = instrumentID
	o.Authorized = true
}
