package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// CreateRequest is the validated shape of a new payment request. Validation
// itself lives at the REST boundary (http.go); by the time Service sees
// this, amount > 0, currency is 3 characters, and items is non-empty.
type CreateRequest struct {
	UserID        string
	Amount        float64
	Currency      string
	PaymentMethod PaymentMethod
	Items         []Item
}

// Service implements every operation §4.3 names for the Order participant:
// the one externally-triggered entry point, the read path, and the four
// saga event handlers that drive Order's half of the state machine.
type Service struct {
	store     Store
	publisher bus.Publisher
	log       *zap.Logger
	source    string
}

// NewService wires a Service around its store and publisher.
func NewService(store Store, publisher bus.Publisher, log *zap.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: log, source: "order-service"}
}

// InitiatePayment is the only externally triggered entry point: it mints a
// fresh sagaId, persists Order(status=PENDING), and emits PAYMENT_INITIATED
// on payment-saga.
func (s *Service) InitiatePayment(ctx context.Context, req CreateRequest) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		OrderID:       uuid.NewString(),
		SagaID:        uuid.NewString(),
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("order: create: %w", err)
	}

	items := make([]events.LineItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = events.LineItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	env, err := events.New(events.PaymentInitiated, o.SagaID, "", s.source, events.PaymentInitiatedPayload{
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		Amount:        o.Amount,
		Currency:      o.Currency,
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, events.TopicPaymentSaga, o.SagaID, env); err != nil {
		s.log.Error("publish PAYMENT_INITIATED failed", zap.String("sagaId", o.SagaID), zap.Error(err))
		return nil, err
	}
	return o, nil
}

// GetOrder returns the snapshot for orderID if it belongs to userID.
func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.store.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// HandleRiskCheckCompleted transitions PENDING→PROCESSING on approval, or
// triggers cancellation with the spec's fixed reason string on decline.
func (s *Service) HandleRiskCheckCompleted(ctx context.Context, env events.Envelope) error {
	var p events.RiskCheckCompletedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	if !p.Approved {
		return s.cancelOrder(ctx, env.SagaID, "Risk check declined")
	}
	return s.store.Mutate(ctx, env.SagaID, func(o *Order) error {
		if o.Status != StatusPending {
			return nil // already advanced past PENDING: idempotent no-op
		}
		o.Status = StatusProcessing
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// HandleRiskCheckFailed triggers cancellation when Risk itself errors
// rather than declining.
func (s *Service) HandleRiskCheckFailed(ctx context.Context, env events.Envelope) error {
	var p events.RiskCheckFailedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.cancelOrder(ctx, env.SagaID, fmt.Sprintf("Risk check failed: %s", p.Reason))
}

// HandlePaymentProcessed transitions PROCESSING→CONFIRMED and stores the
// transactionId, satisfying invariant I3 (CONFIRMED implies a matching
// COMPLETED transaction).
func (s *Service) HandlePaymentProcessed(ctx context.Context, env events.Envelope) error {
	var p events.PaymentProcessedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.store.Mutate(ctx, env.SagaID, func(o *Order) error {
		if o.Status.terminal() {
			return nil // CONFIRMED/CANCELLED/FAILED already: idempotent no-op
		}
		o.Status = StatusConfirmed
		o.TransactionID = p.TransactionID
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// HandlePaymentFailed triggers cancellation on a failed payment.
func (s *Service) HandlePaymentFailed(ctx context.Context, env events.Envelope) error {
	var p events.PaymentFailedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.cancelOrder(ctx, env.SagaID, fmt.Sprintf("Payment failed: %s", p.Reason))
}

// cancelOrder is the compensation fan-out point: it sets status=CANCELLED
// (idempotent: a no-op if already there) and emits ORDER_CANCELLED on
// saga-compensation, which is what drives Risk rollback and Payment refund.
func (s *Service) cancelOrder(ctx context.Context, sagaID, reason string) error {
	var orderID string
	alreadyCancelled := false
	err := s.store.Mutate(ctx, sagaID, func(o *Order) error {
		orderID = o.OrderID
		if o.Status.terminal() {
			alreadyCancelled = true
			return nil
		}
		o.Status = StatusCancelled
		o.CancellationReason = reason
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		// Compensation arrived with no local Order to cancel — nothing to do.
		return nil
	}
	if err != nil {
		return err
	}
	if alreadyCancelled {
		return nil
	}

	env, err := events.New(events.OrderCancelled, sagaID, "", s.source, events.OrderCancelledPayload{
		OrderID:     orderID,
		Reason:      reason,
		CancelledAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, events.TopicSagaCompensation, sagaID, env)
}
