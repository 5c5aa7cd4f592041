package paymentsrepo

import (
	"context"
	"errors"
	"fmt"

	"paybridge/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

const paymentColumns = `id, payment_ref, order_id, email, amount, plan_id, conversations_count,
		       status, gateway_status, gateway_response, created_at, updated_at, completed_at`

func scanPayment(row pgx.Row, extra ...any) (*Payment, error) {
	var p Payment
	dest := []any{
		&p.ID, &p.PaymentRef, &p.OrderID, &p.Email, &p.Amount, &p.PlanID, &p.ConversationsCount,
		&p.Status, &p.GatewayStatus, &p.GatewayResp, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if err := r.q.QueryRow(ctx, `
		INSERT INTO payments (payment_ref, order_id, email, amount, plan_id, conversations_count, status, gateway_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at, updated_at
	`, p.PaymentRef, p.OrderID, p.Email, p.Amount, p.PlanID, p.ConversationsCount, status, p.GatewayResp).
		Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// GetByPaymentRef returns nil, nil when no payment carries the reference.
func (r *Repository) GetByPaymentRef(ctx context.Context, ref string) (*Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE payment_ref = $1
		LIMIT 1
	`, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by payment_ref: %w", err)
	}
	return p, nil
}

func (r *Repository) MarkCompleted(ctx context.Context, paymentID string, c Completion) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE payments
		   SET status = 'completed',
		       gateway_status = $2,
		       gateway_response = COALESCE($3, gateway_response),
		       completed_at = $4,
		       updated_at = now()
		 WHERE id = $1
		   AND status = 'pending'
	`, paymentID, c.GatewayStatus, c.GatewayResp, c.CompletedAt)
	if err != nil {
		return false, fmt.Errorf("mark payment completed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List returns payments with an optional status filter ("" => all), newest
// first, plus the total count for pagination.
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Payment, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
SELECT
  `+paymentColumns+`,
  COUNT(*) OVER() AS total_count
FROM payments
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := []*Payment{}
	var total int
	for rows.Next() {
		var t int
		p, err := scanPayment(rows, &t)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}
