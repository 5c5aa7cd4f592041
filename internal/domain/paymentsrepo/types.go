package paymentsrepo

import (
	"context"
	"encoding/json"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Payment struct {
	ID                 string          `json:"id"`
	PaymentRef         *string         `json:"payment_ref"` // gateway reference, nil until the gateway provides one
	OrderID            string          `json:"order_id"`
	Email              *string         `json:"email"`
	Amount             int64           `json:"amount"`
	PlanID             string          `json:"plan_id"`
	ConversationsCount int             `json:"conversations_count"` // snapshot at initiation
	Status             string          `json:"status"`              // pending, completed
	GatewayStatus      *string         `json:"gateway_status,omitempty"`
	GatewayResp        json.RawMessage `json:"gateway_response,omitempty" swaggertype:"object"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
}

// Completion is what the verifier stamps on a record when the gateway
// confirms the payment.
type Completion struct {
	GatewayStatus string
	GatewayResp   json.RawMessage
	CompletedAt   time.Time
}

type Store interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByPaymentRef(ctx context.Context, ref string) (*Payment, error)
	// MarkCompleted moves a pending payment to completed. It reports false
	// when the payment was no longer pending.
	MarkCompleted(ctx context.Context, paymentID string, c Completion) (bool, error)
	List(ctx context.Context, status string, limit, offset int) ([]*Payment, int, error)
}
