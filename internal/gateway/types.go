package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// ChargeTypeCardOnetime - разовое списание с карты
	ChargeTypeCardOnetime = "card_onetime"

	EventInstrumentAuthorized = "instrument.authorized"

	InstrumentStatusAuthorized = "authorized"

	// MetadataOrderID ключ метаданных платежа, в котором лежит идентификатор заказа
	MetadataOrderID = "orderId"
)

// ChargeRequest тело POST charges.
type ChargeRequest struct {
	ChargeType  string            `json:"charge_type"`
	Amount      decimal.Decimal   `json:"-"`
	Currency    string            `json:"currency"`
	EventsURL   string            `json:"events_url"`
	Metadata    map[string]string `json:"metadata"`
	RedirectURL string            `json:"redirect_url"`
}

// MarshalJSON отдаёт сумму числом с двумя знаками, как ждёт API.
func (r ChargeRequest) MarshalJSON() ([]byte, error) {
	type alias ChargeRequest
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{
		alias:  alias(r),
		Amount: json.Number(r.Amount.StringFixed(2)),
	})
}

type Charge struct {
	ID         string          `json:"id"`
	ChargeType string          `json:"charge_type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Metadata   Metadata        `json:"metadata"`
}

// Metadata произвольные данные мерчанта, приложенные к платежу.
// Значения могут прийти как строками, так и числами.
type Metadata map[string]any

// String возвращает значение ключа строкой.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return decimal.NewFromFloat(val).String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// Instrument платёжный инструмент. Из ответа нужен только статус,
// остальные поля не разбираются: их форма зависит от типа инструмента.
type Instrument struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Authorized сообщает, авторизован ли инструмент.
func (i *Instrument) Authorized() bool {
	return i.Status == InstrumentStatusAuthorized
}

// Event уведомление шлюза об изменении состояния.
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Charge     Charge     `json:"charge"`
	Instrument Instrument `json:"instrument"`
}
