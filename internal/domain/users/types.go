package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("resource not found")
)

// User is owned by the application; this service only reads it by email and
// increments its conversation balance.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	ConversationCount int64     `json:"conversation_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Store interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	IncrementConversations(ctx context.Context, userID string, delta int64) (int64, error)
}
