package plans

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("plan not found")

// Plan is an immutable catalog entry.
type Plan struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ConversationsCount int    `json:"conversations_count"`
	Amount             int64  `json:"amount"`
}

// Lister is the read side used by the public catalog endpoint.
type Lister interface {
	List(ctx context.Context) ([]Plan, error)
}

type Store interface {
	Lister
	GetByID(ctx context.Context, id string) (*Plan, error)
	Create(ctx context.Context, p *Plan) error
	Count(ctx context.Context) (int, error)
}
