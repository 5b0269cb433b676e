package payment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus/membus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

type fakeStore struct {
	mu    sync.Mutex
	bySID map[string]*Transaction
}

func newFakeStore() *fakeStore { return &fakeStore{bySID: make(map[string]*Transaction)} }

func (f *fakeStore) Create(_ context.Context, t *Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bySID[t.SagaID] = t
	return nil
}

func (f *fakeStore) FindBySagaID(_ context.Context, sagaID string) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.bySID[sagaID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) Mutate(_ context.Context, sagaID string, fn func(t *Transaction) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.bySID[sagaID]
	if !ok {
		return ErrNotFound
	}
	return fn(t)
}

// alwaysFailGateway forces exhaustion for the retry-exhaustion scenario.
type alwaysFailGateway struct{}

func (alwaysFailGateway) Charge(context.Context, float64, string) (string, string, error) {
	return "", "", ErrGatewayDeclined
}
func (alwaysFailGateway) Refund(context.Context, string, float64) (string, error) {
	return "", ErrGatewayDeclined
}

// alwaysSucceedGateway is the inverse, for happy-path and refund tests.
type alwaysSucceedGateway struct{}

func (alwaysSucceedGateway) Charge(context.Context, float64, string) (string, string, error) {
	return "GW-1", "AUTH-1", nil
}
func (alwaysSucceedGateway) Refund(context.Context, string, float64) (string, error) {
	return "REF-1", nil
}

func approvedEnv(t *testing.T, sagaID string) events.Envelope {
	env, err := events.New(events.RiskCheckCompleted, sagaID, "", "risk-service", events.RiskCheckCompletedPayload{
		OrderID: "o1", RiskScore: 0, Approved: true,
	})
	require.NoError(t, err)
	return env
}

func TestHandleRiskCheckCompletedChargeSucceeds(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysSucceedGateway{}, zap.NewNop())

	require.NoError(t, svc.HandleRiskCheckCompleted(context.Background(), approvedEnv(t, "s1")))

	tx, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, tx.Status)
	assert.Equal(t, "GW-1", tx.GatewayTransactionID)
}

func TestHandleRiskCheckCompletedNotApprovedNoTransaction(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysSucceedGateway{}, zap.NewNop())

	env, err := events.New(events.RiskCheckCompleted, "s1", "", "risk-service", events.RiskCheckCompletedPayload{
		OrderID: "o1", Approved: false,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleRiskCheckCompleted(context.Background(), env))

	_, err = store.FindBySagaID(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleRiskCheckCompletedGatewayExhaustionFails(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysFailGateway{}, zap.NewNop())
	svc.policy.Base = 0 // don't actually sleep in tests

	require.NoError(t, svc.HandleRiskCheckCompleted(context.Background(), approvedEnv(t, "s1")))

	tx, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, tx.Status)
}

func TestRefundOnlyWhenCompleted(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysSucceedGateway{}, zap.NewNop())
	store.Create(context.Background(), &Transaction{TransactionID: "t1", OrderID: "o1", SagaID: "s1", Status: StatusProcessing})

	env, err := events.New(events.OrderCancelled, "s1", "", "order-service", events.OrderCancelledPayload{Reason: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleCompensation(context.Background(), env))

	tx, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, tx.Status, "PROCESSING transaction must not be refunded")
}

func TestRefundCompletedTransaction(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysSucceedGateway{}, zap.NewNop())
	store.Create(context.Background(), &Transaction{TransactionID: "t1", OrderID: "o1", SagaID: "s1", Status: StatusCompleted, GatewayTransactionID: "GW-1"})

	env, err := events.New(events.OrderCancelled, "s1", "", "order-service", events.OrderCancelledPayload{Reason: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleCompensation(context.Background(), env))

	tx, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, tx.Status)
	assert.Equal(t, "REF-1", tx.RefundID)
}

func TestRefundAlreadyRefundedIsNoop(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, alwaysSucceedGateway{}, zap.NewNop())
	store.Create(context.Background(), &Transaction{TransactionID: "t1", SagaID: "s1", Status: StatusRefunded, RefundID: "REF-0"})

	env, err := events.New(events.PaymentFailed, "s1", "", "payment-service", events.PaymentFailedPayload{Reason: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleCompensation(context.Background(), env))

	tx, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "REF-0", tx.RefundID)
}
