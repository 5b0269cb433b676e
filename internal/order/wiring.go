package order

import (
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// ConsumerGroup is the bus consumer group identity for the Order service.
const ConsumerGroup = "order-service"

// Consumers builds the two consumer workers Order runs: risk-events and
// payment-events. Order never subscribes to saga-compensation — it is the
// one publishing ORDER_CANCELLED there, and never reacts to its own
// compensation event.
func Consumers(svc *Service, readers bus.ReaderFactory, dlqWriter bus.DeadLetterWriter, log *zap.Logger) []*bus.Consumer {
	policy := retry.Default()

	riskHandler := bus.Dispatch(map[events.Type]bus.Handler{
		events.RiskCheckCompleted: svc.HandleRiskCheckCompleted,
		events.RiskCheckFailed:    svc.HandleRiskCheckFailed,
	})
	paymentHandler := bus.Dispatch(map[events.Type]bus.Handler{
		events.PaymentProcessed: svc.HandlePaymentProcessed,
		events.PaymentFailed:    svc.HandlePaymentFailed,
	})

	return []*bus.Consumer{
		{
			Reader:  readers.NewReader(events.TopicRiskEvents, ConsumerGroup),
			Handler: riskHandler,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
		{
			Reader:  readers.NewReader(events.TopicPaymentEvents, ConsumerGroup),
			Handler: paymentHandler,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
	}
}
