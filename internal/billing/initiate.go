package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/storage"
	"paybridge/internal/payments"
)

type InitiateRequest struct {
	PlanID      string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

type InitiateResult struct {
	OrderID string
	// PaymentRef is nil when the gateway did not return a recognizable
	// reference; such a payment cannot be verified by reference.
	PaymentRef      *string
	GatewayResponse json.RawMessage
}

// Initiate creates a gateway payment for the plan and records it as pending.
// Nothing is written when the gateway call fails.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	planID := strings.TrimSpace(req.PlanID)
	if planID == "" {
		return nil, fmt.Errorf("%w: planId is required", ErrInvalidInput)
	}

	plan, err := s.repos.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plans.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrPlanNotFound, planID)
		}
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}

	orderID := s.newOrderID()

	resp, err := s.gateway.InitiatePayment(ctx, payments.PaymentRequest{
		OrderID:     orderID,
		Amount:      plan.Amount,
		Description: "Purchase: " + plan.Name,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if resp.PaymentRef == nil {
		s.logger.Warnw("gateway returned no payment reference; payment cannot be verified by reference",
			"order_id", orderID, "plan_id", plan.ID)
	}

	p := &paymentsrepo.Payment{
		PaymentRef:         resp.PaymentRef,
		OrderID:            orderID,
		Email:              optional(req.Email),
		Amount:             plan.Amount,
		PlanID:             plan.ID,
		ConversationsCount: plan.ConversationsCount,
		Status:             paymentsrepo.StatusPending,
		GatewayResp:        resp.Raw,
	}

	err = s.uow.WithTx(ctx, func(r storage.Repos) error {
		if _, err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if err := r.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogRequest, map[string]any{
			"stage":    "initiate",
			"order_id": orderID,
			"plan_id":  plan.ID,
			"amount":   plan.Amount,
		}); err != nil {
			return err
		}
		return r.PayLogs.InsertPaymentLog(ctx, p.ID, paymentsrepo.LogResponse, map[string]any{
			"stage":    "initiate",
			"order_id": orderID,
			"response": resp.Raw,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: record pending payment for order %s: %v", ErrDatastore, orderID, err)
	}

	paymentsInitiated.Add(1)
	s.logger.Infow("payment initiated", "order_id", orderID, "plan_id", plan.ID, "amount", plan.Amount)

	return &InitiateResult{
		OrderID:         orderID,
		PaymentRef:      resp.PaymentRef,
		GatewayResponse: resp.Raw,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
