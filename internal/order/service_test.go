package order

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus/membus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// fakeStore is a minimal in-memory Store double, used to test Service logic
// in isolation from gorm/sqlmock.
type fakeStore struct {
	mu    sync.Mutex
	bySID map[string]*Order
}

func newFakeStore() *fakeStore { return &fakeStore{bySID: make(map[string]*Order)} }

func (f *fakeStore) Create(_ context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bySID[o.SagaID] = o
	return nil
}

func (f *fakeStore) FindBySagaID(_ context.Context, sagaID string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.bySID[sagaID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) FindByOrderID(_ context.Context, orderID string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.bySID {
		if o.OrderID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Mutate(_ context.Context, sagaID string, fn func(o *Order) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.bySID[sagaID]
	if !ok {
		return ErrNotFound
	}
	return fn(o)
}

func decodePublished(t *testing.T, raw []byte) events.Envelope {
	var env events.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestInitiatePaymentPublishesPaymentInitiated(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())

	o, err := svc.InitiatePayment(context.Background(), CreateRequest{
		UserID: "user-123", Amount: 99.99, Currency: "USD",
		PaymentMethod: PaymentMethodCreditCard,
		Items:         []Item{{ProductID: "p1", Quantity: 2, Price: 49.99}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.NotEmpty(t, o.SagaID)

	reader := broker.NewReader(events.TopicPaymentSaga, "test")
	msg, err := reader.FetchMessage(context.Background())
	require.NoError(t, err)
	env := decodePublished(t, msg.Value)
	assert.Equal(t, events.PaymentInitiated, env.EventType)
	assert.Equal(t, o.SagaID, env.SagaID)
}

func TestHandleRiskCheckCompletedApprovedAdvances(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())
	store.Create(context.Background(), &Order{OrderID: "o1", SagaID: "s1", Status: StatusPending})

	env, err := events.New(events.RiskCheckCompleted, "s1", "", "risk-service", events.RiskCheckCompletedPayload{
		OrderID: "o1", RiskScore: 0, Approved: true,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleRiskCheckCompleted(context.Background(), env))

	o, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)
}

func TestHandleRiskCheckCompletedDeclinedCancels(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())
	store.Create(context.Background(), &Order{OrderID: "o1", SagaID: "s1", Status: StatusPending})

	env, err := events.New(events.RiskCheckCompleted, "s1", "", "risk-service", events.RiskCheckCompletedPayload{
		OrderID: "o1", RiskScore: 80, Approved: false,
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleRiskCheckCompleted(context.Background(), env))

	o, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "Risk check declined", o.CancellationReason)
}

func TestHandlePaymentProcessedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())
	store.Create(context.Background(), &Order{OrderID: "o1", SagaID: "s1", Status: StatusConfirmed, TransactionID: "tx-1"})

	env, err := events.New(events.PaymentProcessed, "s1", "", "payment-service", events.PaymentProcessedPayload{
		OrderID: "o1", TransactionID: "tx-2",
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentProcessed(context.Background(), env))

	o, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", o.TransactionID, "terminal state must not be re-applied")
}

func TestCancelOrderIdempotent(t *testing.T) {
	store := newFakeStore()
	broker := membus.New()
	svc := NewService(store, broker, zap.NewNop())
	store.Create(context.Background(), &Order{OrderID: "o1", SagaID: "s1", Status: StatusCancelled, CancellationReason: "first"})

	require.NoError(t, svc.cancelOrder(context.Background(), "s1", "second"))

	o, err := store.FindBySagaID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "first", o.CancellationReason)
}
