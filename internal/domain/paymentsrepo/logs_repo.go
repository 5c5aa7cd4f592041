package paymentsrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"paybridge/internal/infra/dbx"
)

type LogsRepository struct{ q dbx.Querier }

func NewLogsRepository(q dbx.Querier) *LogsRepository {
	return &LogsRepository{q: q}
}

// InsertPaymentLog appends an audit row. Raw JSON payloads are stored as-is;
// anything else is marshalled.
func (r *LogsRepository) InsertPaymentLog(ctx context.Context, paymentID string, logType string, payload any) error {
	doc, err := encodePayload(payload)
	if err != nil {
		return fmt.Errorf("encode %s log for payment %s: %w", logType, paymentID, err)
	}

	if _, err := r.q.Exec(ctx, `
		INSERT INTO payment_logs (payment_id, log_type, payload)
		VALUES ($1, $2, $3)
	`, paymentID, logType, doc); err != nil {
		return fmt.Errorf("insert payment_log: %w", err)
	}
	return nil
}

// ListByPayment returns the audit trail of one payment, oldest first.
func (r *LogsRepository) ListByPayment(ctx context.Context, paymentID string) ([]PaymentLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, log_type, payload, created_at
		FROM payment_logs
		WHERE payment_id = $1
		ORDER BY created_at ASC, id ASC
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment_logs: %w", err)
	}
	defer rows.Close()

	out := []PaymentLog{}
	for rows.Next() {
		var (
			l   PaymentLog
			raw json.RawMessage
		)
		if err := rows.Scan(&l.ID, &l.PaymentID, &l.LogType, &raw, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment_log: %w", err)
		}
		if len(raw) > 0 {
			l.Payload = raw
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func encodePayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	default:
		return json.Marshal(v)
	}
}
