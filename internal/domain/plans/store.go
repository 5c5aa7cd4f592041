package plans

import (
	"context"
	"errors"
	"fmt"

	"paybridge/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) List(ctx context.Context) ([]Plan, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, conversations_count, amount
		FROM plans
		ORDER BY amount ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := []Plan{}
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.ConversationsCount, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns ErrNotFound when no plan has the given id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Plan, error) {
	var p Plan
	err := r.q.QueryRow(ctx, `
		SELECT id, name, conversations_count, amount
		FROM plans WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.ConversationsCount, &p.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *Plan) error {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO plans (name, conversations_count, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.Name, p.ConversationsCount, p.Amount).Scan(&p.ID); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return n, nil
}
