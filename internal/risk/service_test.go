package risk

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
	bySID map[string]*Assessment
}

func newFakeStore() *fakeStore { return &fakeStore{bySID: make(map[string]*Assessment)} }

func (f *fakeStore) Create(_ context.Context, a *Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bySID[a.SagaID] = a
	return nil
}

func (f *fakeStore) FindBySagaID(_ context.Context, sagaID string) (*Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.bySID[sagaID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) Mutate(_ context.Context, sagaID string, fn func(a *Assessment) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.bySID[sagaID]
	if !ok {
		return ErrNotFound
	}
	return fn(a)
}

func TestHappyPathApproval(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())

	env, err := events.New(events.PaymentInitiated, "s1", "", "order-service", events.PaymentInitiatedPayload{
		OrderID: "o1", UserID: "user-123", Amount: 99.99,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentInitiated(context.Background(), env))

	a, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, a.Approved)
	assert.Equal(t, 0, a.RiskScore)
}

func TestBlacklistDeclines(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())

	env, err := events.New(events.PaymentInitiated, "s1", "", "order-service", events.PaymentInitiatedPayload{
		OrderID: "o1", UserID: "blocked-user-456", Amount: 149.99,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentInitiated(context.Background(), env))

	a, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, a.Approved)
	assert.Equal(t, 30, a.RiskScore)
}

func TestFraudByAmountDeclines(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())

	env, err := events.New(events.PaymentInitiated, "s1", "", "order-service", events.PaymentInitiatedPayload{
		OrderID: "o1", UserID: "user-1", Amount: 15000.00,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentInitiated(context.Background(), env))

	a, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, a.Approved)
	assert.GreaterOrEqual(t, a.RiskScore, 40)
}

func TestRollbackIsIdempotent(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())
	store.Create(context.Background(), &Assessment{SagaID: "s1", OrderID: "o1", Approved: true})

	env, err := events.New(events.OrderCancelled, "s1", "", "order-service", events.OrderCancelledPayload{
		OrderID: "o1", Reason: "Risk check declined",
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleCompensation(context.Background(), env))
	a, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, a.RolledBack)

	// Replaying the same compensation event must not emit a second rollback event.
	reader := broker.NewReader(events.TopicSagaCompensation, "test")
	first, err := reader.FetchMessage(context.Background())
	require.NoError(t, err) // the RISK_CHECK_ROLLBACK from the first call
	require.NoError(t, reader.CommitMessage(context.Background(), first))

	require.NoError(t, svc.HandleCompensation(context.Background(), env))
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err = reader.FetchMessage(ctx)
	assert.Error(t, err, "no second rollback event should have been published")
}

func TestMissingAssessmentCompensationIsNoop(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())

	env, err := events.New(events.OrderCancelled, "unknown-saga", "", "order-service", events.OrderCancelledPayload{Reason: "x"})
	require.NoError(t, err)
	assert.NoError(t, svc.HandleCompensation(context.Background(), env))
}
