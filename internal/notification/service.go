package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Service dispatches human-readable messages for the event types §4.6
// names, deduping by (orderId, category) so repeated deliveries of the same
// event don't re-send.
type Service struct {
	dedup DedupStore
	email Channel
	log   *zap.Logger
}

// NewService wires a Service around its dedup store and channel.
func NewService(dedup DedupStore, email Channel, log *zap.Logger) *Service {
	return &Service{dedup: dedup, email: email, log: log}
}

// HandlePaymentProcessed sends the SUCCESS notification.
func (s *Service) HandlePaymentProcessed(ctx context.Context, env events.Envelope) error {
	var p events.PaymentProcessedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.notify(ctx, p.OrderID, CategorySuccess,
		"Your payment was successful",
		fmt.Sprintf("Order %s is confirmed. Transaction %s.", p.OrderID, p.TransactionID))
}

// HandlePaymentFailed sends the FAILURE notification.
func (s *Service) HandlePaymentFailed(ctx context.Context, env events.Envelope) error {
	var p events.PaymentFailedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.notify(ctx, p.OrderID, CategoryFailure,
		"Your payment failed",
		fmt.Sprintf("Order %s could not be charged: %s.", p.OrderID, p.Reason))
}

// HandleOrderCancelled sends the CANCELLED notification.
func (s *Service) HandleOrderCancelled(ctx context.Context, env events.Envelope) error {
	var p events.OrderCancelledPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.notify(ctx, p.OrderID, CategoryCancelled,
		"Your order was cancelled",
		fmt.Sprintf("Order %s was cancelled: %s.", p.OrderID, p.Reason))
}

// HandlePaymentRefunded sends the REFUND notification.
func (s *Service) HandlePaymentRefunded(ctx context.Context, env events.Envelope) error {
	var p events.PaymentRefundedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	return s.notify(ctx, p.OrderID, CategoryRefund,
		"Your payment was refunded",
		fmt.Sprintf("Order %s was refunded. Refund %s.", p.OrderID, p.RefundID))
}

func (s *Service) notify(ctx context.Context, orderID string, category Category, subject, body string) error {
	if orderID == "" {
		// ORDER_CANCELLED in particular may arrive with no orderId (see the
		// design notes on the reference's nullable field); there is nothing
		// to dedup or address a message to, so this is a silent no-op.
		return nil
	}
	firstTime, err := s.dedup.MarkIfAbsent(ctx, orderID, category)
	if err != nil {
		return err
	}
	if !firstTime {
		return nil
	}
	if err := s.email.Send(ctx, "order:"+orderID, subject, body); err != nil {
		s.log.Warn("notification send failed", zap.String("orderId", orderID), zap.String("category", string(category)), zap.Error(err))
		return nil // dispatch failure is best-effort, never blocks acknowledgment
	}
	return nil
}
