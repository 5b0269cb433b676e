package payment

import (
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// ConsumerGroup is the bus consumer group identity for the Payment service.
const ConsumerGroup = "payment-service"

// Consumers builds the two consumer workers Payment runs: risk-events (the
// forward charge) and saga-compensation (refund).
func Consumers(svc *Service, readers bus.ReaderFactory, dlqWriter bus.DeadLetterWriter, log *zap.Logger) []*bus.Consumer {
	policy := retry.Default()

	forward := bus.Dispatch(map[events.Type]bus.Handler{
		events.RiskCheckCompleted: svc.HandleRiskCheckCompleted,
	})
	compensation := bus.Dispatch(map[events.Type]bus.Handler{
		events.OrderCancelled: svc.HandleCompensation,
		events.PaymentFailed:  svc.HandleCompensation,
	})

	return []*bus.Consumer{
		{
			Reader:  readers.NewReader(events.TopicRiskEvents, ConsumerGroup),
			Handler: forward,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
		{
			Reader:  readers.NewReader(events.TopicSagaCompensation, ConsumerGroup),
			Handler: compensation,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
	}
}
