package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Service implements §4.5's gateway call and refund.
type Service struct {
	store     Store
	publisher bus.Publisher
	gateway   Gateway
	policy    retry.Policy
	log       *zap.Logger
	source    string
}

// NewService wires a Service around its store, publisher, and gateway
// adapter. The gateway call gets its own retry policy, independent of the
// bus consumer's handler-retry policy.
func NewService(store Store, publisher bus.Publisher, gateway Gateway, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		gateway:   gateway,
		policy:    retry.Gateway(),
		log:       log,
		source:    "payment-service",
	}
}

// HandleRiskCheckCompleted charges the gateway on approval. A decline is a
// business failure, not an exception: it persists FAILED and emits
// PAYMENT_FAILED rather than escalating to the bus's retry/DLQ machinery.
func (s *Service) HandleRiskCheckCompleted(ctx context.Context, env events.Envelope) error {
	var p events.RiskCheckCompletedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	if !p.Approved {
		return nil
	}

	if _, err := s.store.FindBySagaID(ctx, env.SagaID); err == nil {
		return nil // already processed: idempotent no-op
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	// RISK_CHECK_COMPLETED carries no amount (see §6); Payment has no order
	// context of its own to read it from either. No invariant in this
	// module depends on the figure, so it stays a placeholder pending an
	// amount-carrying event, same gap as the source this was distilled from.
	t := &Transaction{
		TransactionID: uuid.NewString(),
		OrderID:       p.OrderID,
		SagaID:        env.SagaID,
		Amount:        0,
		Currency:      "USD",
		Status:        StatusProcessing,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return err
	}

	var gatewayTxID, authCode string
	chargeErr := retry.Do(ctx, s.policy, func(attempt int) error {
		var err error
		gatewayTxID, authCode, err = s.gateway.Charge(ctx, t.Amount, t.Currency)
		return err
	})

	if chargeErr == nil {
		if err := s.store.Mutate(ctx, env.SagaID, func(tx *Transaction) error {
			tx.Status = StatusCompleted
			tx.GatewayTransactionID = gatewayTxID
			tx.AuthCode = authCode
			tx.UpdatedAt = time.Now().UTC()
			return nil
		}); err != nil {
			return err
		}
		out, err := events.New(events.PaymentProcessed, env.SagaID, env.WithCorrelation(), s.source, events.PaymentProcessedPayload{
			OrderID:       p.OrderID,
			TransactionID: t.TransactionID,
			Amount:        t.Amount,
			Currency:      t.Currency,
			ProcessedAt:   time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return s.publisher.Publish(ctx, events.TopicPaymentEvents, env.SagaID, out)
	}

	if err := s.store.Mutate(ctx, env.SagaID, func(tx *Transaction) error {
		tx.Status = StatusFailed
		tx.ErrorMessage = chargeErr.Error()
		tx.UpdatedAt = time.Now().UTC()
		return nil
	}); err != nil {
		return err
	}
	out, err := events.New(events.PaymentFailed, env.SagaID, env.WithCorrelation(), s.source, events.PaymentFailedPayload{
		OrderID:   p.OrderID,
		Reason:    chargeErr.Error(),
		ErrorCode: "GATEWAY_DECLINED",
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, events.TopicPaymentEvents, env.SagaID, out)
}

// HandleCompensation refunds a COMPLETED transaction on ORDER_CANCELLED or
// PAYMENT_FAILED. Per §4.5, PROCESSING and already-FAILED/REFUNDED
// transactions are no-ops: no money ever moved to completion for the
// former, and the latter needs no further action.
func (s *Service) HandleCompensation(ctx context.Context, env events.Envelope) error {
	var reason string
	switch env.EventType {
	case events.OrderCancelled:
		var p events.OrderCancelledPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		reason = p.Reason
	case events.PaymentFailed:
		var p events.PaymentFailedPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		reason = p.Reason
	default:
		return nil
	}

	t, err := s.store.FindBySagaID(ctx, env.SagaID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if t.Status != StatusCompleted {
		return nil
	}

	refundID, refundErr := s.gateway.Refund(ctx, t.GatewayTransactionID, t.Amount)
	if refundErr != nil {
		// Refund gateway failure is not retried inline; it is surfaced for
		// manual intervention (§7 kind-5) and the transaction stays COMPLETED.
		s.log.Error("refund failed, manual intervention required",
			zap.String("sagaId", env.SagaID), zap.Bool("manual_intervention", true), zap.Error(refundErr))
		return nil
	}

	if err := s.store.Mutate(ctx, env.SagaID, func(tx *Transaction) error {
		if tx.Status != StatusCompleted {
			return nil // raced with another compensation delivery
		}
		tx.Status = StatusRefunded
		tx.RefundID = refundID
		tx.UpdatedAt = time.Now().UTC()
		return nil
	}); err != nil {
		return err
	}

	out, err := events.New(events.PaymentRefunded, env.SagaID, env.WithCorrelation(), s.source, events.PaymentRefundedPayload{
		OrderID:       t.OrderID,
		TransactionID: t.TransactionID,
		RefundID:      refundID,
		Amount:        t.Amount,
		Reason:        reason,
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, events.TopicSagaCompensation, env.SagaID, out)
}
