package billing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/users"
	"paybridge/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var starter = plans.Plan{ID: "plan-starter", Name: "Starter 500", ConversationsCount: 500, Amount: 5000}

func newTestService(store *memStore, gw *fakeGateway, cfg Config) *Service {
	return NewService(store.repos(), store, gw, cfg, nil)
}

func ref(s string) *string { return &s }

func seedPending(store *memStore, paymentRef string) paymentsrepo.Payment {
	p := paymentsrepo.Payment{
		ID:                 "pay-seeded",
		PaymentRef:         ref(paymentRef),
		OrderID:            "order-seeded",
		Email:              ref("a@x.com"),
		Amount:             starter.Amount,
		PlanID:             starter.ID,
		ConversationsCount: starter.ConversationsCount,
		Status:             paymentsrepo.StatusPending,
	}
	store.addPayment(p)
	return p
}

func TestInitiateUnknownPlan(t *testing.T) {
	store := newMemStore()
	gw := &fakeGateway{}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: "missing", Email: "a@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, store.allPayments())
	assert.Empty(t, gw.initCalls)
}

func TestInitiateMissingPlanID(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeGateway{}, Config{})

	_, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: "  "})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestInitiateRecordsPendingPayment(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	raw := json.RawMessage(`{"payUrl":"https://pay.example.com/REF123","paymentRef":"REF123"}`)
	gw := &fakeGateway{initResp: payments.PaymentResponse{PaymentRef: ref("REF123"), Raw: raw}}
	svc := newTestService(store, gw, Config{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{
		PlanID:      starter.ID,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "a@x.com",
		PhoneNumber: "22000000",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	assert.JSONEq(t, string(raw), string(res.GatewayResponse))

	all := store.allPayments()
	require.Len(t, all, 1)
	p := all[0]
	assert.Equal(t, paymentsrepo.StatusPending, p.Status)
	assert.Equal(t, starter.Amount, p.Amount)
	assert.Equal(t, starter.ConversationsCount, p.ConversationsCount)
	assert.Equal(t, starter.ID, p.PlanID)
	assert.Equal(t, res.OrderID, p.OrderID)
	require.NotNil(t, p.PaymentRef)
	assert.Equal(t, "REF123", *p.PaymentRef)
	assert.Equal(t, 2, store.logCount())

	require.Len(t, gw.initCalls, 1)
	call := gw.initCalls[0]
	assert.Equal(t, res.OrderID, call.OrderID)
	assert.Equal(t, starter.Amount, call.Amount)
	assert.Equal(t, "Purchase: Starter 500", call.Description)
	assert.Equal(t, "a@x.com", call.Email)

	again, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: starter.ID, Email: "a@x.com"})
	require.NoError(t, err)
	assert.NotEqual(t, res.OrderID, again.OrderID)
	assert.Len(t, store.allPayments(), 2)
}

func TestInitiateGatewayFailureWritesNothing(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	gw := &fakeGateway{initErr: errors.New("connection refused")}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: starter.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
	assert.Empty(t, store.allPayments())
	assert.Zero(t, store.logCount())
}

func TestInitiateWithoutPaymentRef(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	gw := &fakeGateway{initResp: payments.PaymentResponse{Raw: json.RawMessage(`{}`)}}
	svc := newTestService(store, gw, Config{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: starter.ID})
	require.NoError(t, err)
	assert.Nil(t, res.PaymentRef)

	all := store.allPayments()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].PaymentRef)
}

func TestInitiateDatastoreFailure(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.failCreate = errors.New("disk full")
	gw := &fakeGateway{initResp: payments.PaymentResponse{PaymentRef: ref("REF1")}}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Initiate(context.Background(), InitiateRequest{PlanID: starter.ID})
	assert.True(t, errors.Is(err, ErrDatastore))
	assert.Empty(t, store.allPayments())
}

func TestVerifyEmptyRef(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeGateway{}, Config{})

	_, err := svc.Verify(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestVerifyUnknownRef(t *testing.T) {
	store := newMemStore()
	gw := &fakeGateway{}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, gw.getCalls)
	assert.Empty(t, store.allPayments())
}

func TestVerifyCompletesAndCredits(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.addUser(users.User{ID: "user-1", Email: "a@x.com", ConversationCount: 20})
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: completedStatus("a@x.com")}
	svc := newTestService(store, gw, Config{})

	out, err := svc.Verify(context.Background(), "REF123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, out.Kind)
	assert.Equal(t, "completed", out.PaymentStatus)
	assert.Equal(t, int64(500), out.Credited)
	assert.Equal(t, int64(520), store.balance("user-1"))

	got := store.payment(p.ID)
	assert.Equal(t, paymentsrepo.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	require.NotNil(t, got.GatewayStatus)
	assert.Equal(t, "completed", *got.GatewayStatus)
}

func TestVerifyIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.addUser(users.User{ID: "user-1", Email: "a@x.com"})
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: completedStatus("a@x.com")}
	svc := newTestService(store, gw, Config{})

	first, err := svc.Verify(context.Background(), "REF123")
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, first.Kind)
	before := store.payment(p.ID)

	second, err := svc.Verify(context.Background(), "REF123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCompleted, second.Kind)
	assert.Equal(t, int64(500), store.balance("user-1"))
	assert.Equal(t, before, store.payment(p.ID))
	assert.Equal(t, 1, gw.getCalls)
}

func TestVerifyConcurrentCallsCreditOnce(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.addUser(users.User{ID: "user-1", Email: "a@x.com"})
	seedPending(store, "REF123")

	// Hold both verifiers at the gateway call until both have read the
	// record as pending.
	var arrived sync.WaitGroup
	arrived.Add(2)
	gw := &fakeGateway{status: completedStatus("a@x.com")}
	gw.beforeReturn = func() {
		arrived.Done()
		arrived.Wait()
	}
	svc := newTestService(store, gw, Config{})

	var wg sync.WaitGroup
	outcomes := make([]*VerificationOutcome, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Verify(context.Background(), "REF123")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	kinds := []OutcomeKind{outcomes[0].Kind, outcomes[1].Kind}
	assert.ElementsMatch(t, []OutcomeKind{OutcomeCompleted, OutcomeAlreadyCompleted}, kinds)
	assert.Equal(t, int64(500), store.balance("user-1"))
	assert.Equal(t, 2, gw.getCalls)
}

func TestVerifyNotCompleted(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.addUser(users.User{ID: "user-1", Email: "a@x.com", ConversationCount: 7})
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: payments.PaymentStatus{Status: "completed", TransactionStatus: "failed", Email: "a@x.com"}}
	svc := newTestService(store, gw, Config{})

	out, err := svc.Verify(context.Background(), "REF123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotCompleted, out.Kind)
	assert.Equal(t, "completed", out.PaymentStatus)
	assert.Equal(t, "failed", out.TransactionStatus)
	assert.Equal(t, int64(7), store.balance("user-1"))
	assert.Equal(t, paymentsrepo.StatusPending, store.payment(p.ID).Status)
}

func TestVerifyGatewayFailure(t *testing.T) {
	store := newMemStore()
	p := seedPending(store, "REF123")
	gw := &fakeGateway{statErr: errors.New("timeout")}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "REF123")
	assert.True(t, errors.Is(err, ErrGateway))
	assert.Equal(t, paymentsrepo.StatusPending, store.payment(p.ID).Status)
}

func TestVerifyMissingGatewayEmail(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: payments.PaymentStatus{Status: "completed", TransactionStatus: "success"}}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "REF123")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, paymentsrepo.StatusPending, store.payment(p.ID).Status)
}

func TestVerifyUsesGatewayEmailNotStoredEmail(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	store.addUser(users.User{ID: "user-a", Email: "a@x.com"})
	store.addUser(users.User{ID: "user-b", Email: "b@x.com"})
	seedPending(store, "REF123") // stored email is a@x.com
	gw := &fakeGateway{status: completedStatus("b@x.com")}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "REF123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.balance("user-a"))
	assert.Equal(t, int64(500), store.balance("user-b"))
}

func TestVerifyUnknownUserLeavesPending(t *testing.T) {
	store := newMemStore()
	store.addPlan(starter)
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: completedStatus("ghost@x.com")}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "REF123")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, paymentsrepo.StatusPending, store.payment(p.ID).Status)
	assert.Zero(t, store.logCount())
}

func TestVerifyPlanRemoved(t *testing.T) {
	store := newMemStore()
	store.addUser(users.User{ID: "user-1", Email: "a@x.com"})
	p := seedPending(store, "REF123")
	gw := &fakeGateway{status: completedStatus("a@x.com")}
	svc := newTestService(store, gw, Config{})

	_, err := svc.Verify(context.Background(), "REF123")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, paymentsrepo.StatusPending, store.payment(p.ID).Status)
	assert.Equal(t, int64(0), store.balance("user-1"))
}

func TestVerifyCreditSource(t *testing.T) {
	tests := []struct {
		name   string
		source CreditSource
		want   int64
	}{
		{name: "live plan value", source: CreditLive, want: 800},
		{name: "snapshot value", source: CreditSnapshot, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			changed := starter
			changed.ConversationsCount = 800
			store.addPlan(changed)
			store.addUser(users.User{ID: "user-1", Email: "a@x.com"})
			seedPending(store, "REF123") // snapshot 500
			gw := &fakeGateway{status: completedStatus("a@x.com")}
			svc := newTestService(store, gw, Config{CreditSource: tt.source})

			out, err := svc.Verify(context.Background(), "REF123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Credited)
			assert.Equal(t, tt.want, store.balance("user-1"))
		})
	}
}
