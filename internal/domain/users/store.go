package users

import (
	"context"
	"errors"
	"fmt"

	"paybridge/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, conversation_count, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email).Scan(&u.ID, &u.Email, &u.ConversationCount, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// IncrementConversations adds delta to the balance in a single statement and
// returns the new balance.
func (r *Repository) IncrementConversations(ctx context.Context, userID string, delta int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE users
		   SET conversation_count = conversation_count + $2,
		       updated_at = now()
		 WHERE id = $1
		RETURNING conversation_count
	`, userID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("increment conversations: %w", err)
	}
	return balance, nil
}
