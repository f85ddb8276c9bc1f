package service

import (
	"context"

	"github.com/linemk/switch-merchant/internal/gateway"
)

// PaymentGateway - операции платёжного шлюза, которые нужны сервисам.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error)
	GetEvent(ctx context.Context, id string) (*gateway.Event, error)
	GetInstrument(ctx context.Context, id string) (*gateway.Instrument, error)
	PublicAuthorization() string
	InstrumentsURL() string
}

var _ PaymentGateway = (*gateway.Client)(nil)
