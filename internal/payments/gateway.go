package payments

import (
	"context"
	"errors"
)

// ErrGateway marks transport failures and non-success responses from the
// payment gateway.
var ErrGateway = errors.New("payment gateway error")

// PaymentGateway is the remote authority for payment state.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	GetPayment(ctx context.Context, paymentRef string) (PaymentStatus, error)
}
