package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/storage"
	"paybridge/internal/domain/users"
)

type OutcomeKind string

const (
	OutcomeAlreadyCompleted OutcomeKind = "already_completed"
	OutcomeCompleted        OutcomeKind = "completed"
	OutcomeNotCompleted     OutcomeKind = "not_completed"
)

type VerificationOutcome struct {
	Kind              OutcomeKind
	PaymentStatus     string // gateway-level status
	TransactionStatus string // first transaction's status, "" when none
	Credited          int64  // conversations added to the buyer, only for OutcomeCompleted
}

// Verify re-queries the gateway for paymentRef and, when the payment is
// confirmed, credits the buyer and completes the record in one transaction.
// The pending->completed transition happens at most once per payment.
func (s *Service) Verify(ctx context.Context, paymentRef string) (*VerificationOutcome, error) {
	ref := strings.TrimSpace(paymentRef)
	if ref == "" {
		return nil, fmt.Errorf("%w: paymentRef is required", ErrInvalidInput)
	}

	pay, err := s.repos.Payments.GetByPaymentRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}
	if pay == nil {
		return nil, fmt.Errorf("%w %s", ErrPaymentNotFound, ref)
	}

	if pay.Status == paymentsrepo.StatusCompleted {
		return &VerificationOutcome{Kind: OutcomeAlreadyCompleted}, nil
	}

	st, err := s.gateway.GetPayment(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if !st.Completed() {
		s.logger.Infow("payment not completed at gateway",
			"payment_ref", ref, "payment_status", st.Status, "transaction_status", st.TransactionStatus)
		return &VerificationOutcome{
			Kind:              OutcomeNotCompleted,
			PaymentStatus:     st.Status,
			TransactionStatus: st.TransactionStatus,
		}, nil
	}

	// The gateway's record of who paid is authoritative, not ours.
	if st.Email == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingBuyerEmail, ref)
	}

	var (
		credited int64
		won      bool
	)
	err = s.uow.WithTx(ctx, func(r storage.Repos) error {
		plan, err := r.Plans.GetByID(ctx, pay.PlanID)
		if err != nil {
			if errors.Is(err, plans.ErrNotFound) {
				return fmt.Errorf("%w %s", ErrPlanNotFound, pay.PlanID)
			}
			return fmt.Errorf("%w: %v", ErrDatastore, err)
		}

		user, err := r.Users.GetByEmail(ctx, st.Email)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return fmt.Errorf("%w %s", ErrUserNotFound, st.Email)
			}
			return fmt.Errorf("%w: %v", ErrDatastore, err)
		}

		won, err = r.Payments.MarkCompleted(ctx, pay.ID, paymentsrepo.Completion{
			GatewayStatus: st.Status,
			GatewayResp:   st.Raw,
			CompletedAt:   s.now(),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatastore, err)
		}
		if !won {
			return nil
		}

		credited = s.creditFor(pay, plan)
		if _, err := r.Users.IncrementConversations(ctx, user.ID, credited); err != nil {
			return fmt.Errorf("%w: %v", ErrDatastore, err)
		}

		if err := r.PayLogs.InsertPaymentLog(ctx, pay.ID, paymentsrepo.LogVerify, map[string]any{
			"stage":              "verify",
			"payment_status":     st.Status,
			"transaction_status": st.TransactionStatus,
			"user_id":            user.ID,
			"credited":           credited,
		}); err != nil {
			return fmt.Errorf("%w: %v", ErrDatastore, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDatastore) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}

	if !won {
		return &VerificationOutcome{Kind: OutcomeAlreadyCompleted}, nil
	}

	paymentsCompleted.Add(1)
	s.logger.Infow("payment completed",
		"payment_ref", ref, "order_id", pay.OrderID, "plan_id", pay.PlanID, "credited", credited)

	return &VerificationOutcome{
		Kind:              OutcomeCompleted,
		PaymentStatus:     st.Status,
		TransactionStatus: st.TransactionStatus,
		Credited:          credited,
	}, nil
}

func (s *Service) creditFor(pay *paymentsrepo.Payment, plan *plans.Plan) int64 {
	if plan.ConversationsCount != pay.ConversationsCount {
		s.logger.Warnw("plan entitlement changed since initiation",
			"payment_id", pay.ID, "plan_id", plan.ID,
			"snapshot", pay.ConversationsCount, "live", plan.ConversationsCount,
			"credit_source", s.cfg.CreditSource)
	}
	if s.cfg.CreditSource == CreditSnapshot {
		return int64(pay.ConversationsCount)
	}
	return int64(plan.ConversationsCount)
}
