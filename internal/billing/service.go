// Package billing reconciles payments between the local datastore and the
// payment gateway: it initiates pending payments and verifies them into
// credited entitlements exactly once.
package billing

import (
	"context"
	"expvar"
	"time"

	"paybridge/internal/domain/storage"
	"paybridge/internal/payments"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreditSource selects which entitlement count is credited on completion.
type CreditSource string

const (
	// CreditLive credits the plan's count as read at verification time.
	CreditLive CreditSource = "live"
	// CreditSnapshot credits the count recorded on the payment at initiation.
	CreditSnapshot CreditSource = "snapshot"
)

type Config struct {
	CreditSource CreditSource
}

// UnitOfWork runs fn atomically against transaction-scoped repositories.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(r storage.Repos) error) error
}

var (
	paymentsInitiated = expvar.NewInt("payments_initiated")
	paymentsCompleted = expvar.NewInt("payments_completed")
)

type Service struct {
	repos   storage.Repos
	uow     UnitOfWork
	gateway payments.PaymentGateway
	cfg     Config
	logger  *zap.SugaredLogger

	now        func() time.Time
	newOrderID func() string
}

func NewService(repos storage.Repos, uow UnitOfWork, gateway payments.PaymentGateway, cfg Config, logger *zap.SugaredLogger) *Service {
	if cfg.CreditSource == "" {
		cfg.CreditSource = CreditLive
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		repos:      repos,
		uow:        uow,
		gateway:    gateway,
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newOrderID: uuid.NewString,
	}
}
