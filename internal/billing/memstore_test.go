package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/storage"
	"paybridge/internal/domain/users"
	"paybridge/internal/payments"
)

// memStore is an in-memory implementation of every repository the service
// uses. WithTx serializes units of work and restores state when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	plans    map[string]plans.Plan
	users    map[string]users.User // keyed by id
	payments map[string]paymentsrepo.Payment
	logs     []paymentsrepo.PaymentLog
	seq      int

	failCreate error
}

func newMemStore() *memStore {
	return &memStore{
		plans:    map[string]plans.Plan{},
		users:    map[string]users.User{},
		payments: map[string]paymentsrepo.Payment{},
	}
}

func (m *memStore) repos() storage.Repos {
	return storage.Repos{Plans: memPlans{m}, Users: memUsers{m}, Payments: memPayments{m}, PayLogs: memLogs{m}}
}

func (m *memStore) WithTx(ctx context.Context, fn func(r storage.Repos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapUsers := cloneMap(m.users)
	snapPayments := cloneMap(m.payments)
	snapLogs := append([]paymentsrepo.PaymentLog(nil), m.logs...)
	m.mu.Unlock()

	if err := fn(m.repos()); err != nil {
		m.mu.Lock()
		m.users, m.payments, m.logs = snapUsers, snapPayments, snapLogs
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) addPlan(p plans.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
}

func (m *memStore) addUser(u users.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *memStore) addPayment(p paymentsrepo.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

func (m *memStore) balance(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID].ConversationCount
}

func (m *memStore) payment(id string) paymentsrepo.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id]
}

func (m *memStore) allPayments() []paymentsrepo.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]paymentsrepo.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	return out
}

func (m *memStore) logCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

type memPlans struct{ m *memStore }

func (s memPlans) List(ctx context.Context) ([]plans.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]plans.Plan, 0, len(s.m.plans))
	for _, p := range s.m.plans {
		out = append(out, p)
	}
	return out, nil
}

func (s memPlans) GetByID(ctx context.Context, id string) (*plans.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.plans[id]
	if !ok {
		return nil, plans.ErrNotFound
	}
	return &p, nil
}

func (s memPlans) Create(ctx context.Context, p *plans.Plan) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.seq++
	p.ID = fmt.Sprintf("plan-%d", s.m.seq)
	s.m.plans[p.ID] = *p
	return nil
}

func (s memPlans) Count(ctx context.Context) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return len(s.m.plans), nil
}

type memUsers struct{ m *memStore }

func (s memUsers) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s memUsers) IncrementConversations(ctx context.Context, userID string, delta int64) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[userID]
	if !ok {
		return 0, users.ErrNotFound
	}
	u.ConversationCount += delta
	s.m.users[userID] = u
	return u.ConversationCount, nil
}

type memPayments struct{ m *memStore }

func (s memPayments) Create(ctx context.Context, p *paymentsrepo.Payment) (*paymentsrepo.Payment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failCreate != nil {
		return nil, s.m.failCreate
	}
	for _, existing := range s.m.payments {
		if existing.OrderID == p.OrderID {
			return nil, errors.New("duplicate order_id")
		}
	}
	s.m.seq++
	p.ID = fmt.Sprintf("pay-%d", s.m.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.m.payments[p.ID] = *p
	return p, nil
}

func (s memPayments) GetByPaymentRef(ctx context.Context, ref string) (*paymentsrepo.Payment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.payments {
		if p.PaymentRef != nil && *p.PaymentRef == ref {
			return &p, nil
		}
	}
	return nil, nil
}

func (s memPayments) MarkCompleted(ctx context.Context, paymentID string, c paymentsrepo.Completion) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.payments[paymentID]
	if !ok || p.Status != paymentsrepo.StatusPending {
		return false, nil
	}
	p.Status = paymentsrepo.StatusCompleted
	p.GatewayStatus = &c.GatewayStatus
	if c.GatewayResp != nil {
		p.GatewayResp = c.GatewayResp
	}
	completedAt := c.CompletedAt
	p.CompletedAt = &completedAt
	s.m.payments[paymentID] = p
	return true, nil
}

func (s memPayments) List(ctx context.Context, status string, limit, offset int) ([]*paymentsrepo.Payment, int, error) {
	return nil, 0, errors.New("not implemented")
}

type memLogs struct{ m *memStore }

func (s memLogs) InsertPaymentLog(ctx context.Context, paymentID string, logType string, payload any) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.logs = append(s.m.logs, paymentsrepo.PaymentLog{PaymentID: paymentID, LogType: logType, Payload: payload})
	return nil
}

// fakeGateway returns canned responses and records calls.
type fakeGateway struct {
	mu sync.Mutex

	initResp payments.PaymentResponse
	initErr  error
	status   payments.PaymentStatus
	statErr  error

	initCalls []payments.PaymentRequest
	getCalls  int

	// beforeReturn, when set, runs inside GetPayment before it returns.
	beforeReturn func()
}

func (g *fakeGateway) InitiatePayment(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResponse, error) {
	g.mu.Lock()
	g.initCalls = append(g.initCalls, req)
	g.mu.Unlock()
	return g.initResp, g.initErr
}

func (g *fakeGateway) GetPayment(ctx context.Context, ref string) (payments.PaymentStatus, error) {
	g.mu.Lock()
	g.getCalls++
	hook := g.beforeReturn
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	return g.status, g.statErr
}

func completedStatus(email string) payments.PaymentStatus {
	raw, _ := json.Marshal(map[string]any{
		"payment": map[string]any{
			"status":         "completed",
			"transactions":   []any{map[string]any{"status": "success"}},
			"paymentDetails": map[string]any{"email": email},
		},
	})
	return payments.PaymentStatus{Status: "completed", TransactionStatus: "success", Email: email, Raw: raw}
}
