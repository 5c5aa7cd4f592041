package paymentsrepo

import (
	"context"
	"time"
)

const (
	LogRequest  = "request"
	LogResponse = "response"
	LogVerify   = "verify"
)

type PaymentLog struct {
	ID        int64     `json:"id"`
	PaymentID string    `json:"payment_id"`
	LogType   string    `json:"log_type"` // request, response, verify
	Payload   any       `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LogsStore interface {
	InsertPaymentLog(ctx context.Context, paymentID string, logType string, payload any) error
}

type LogsReader interface {
	ListByPayment(ctx context.Context, paymentID string) ([]PaymentLog, error)
}
