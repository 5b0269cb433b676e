package risk

import (
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// ConsumerGroup is the bus consumer group identity for the Risk service.
const ConsumerGroup = "risk-service"

// Consumers builds the two consumer workers Risk runs: payment-saga (the
// forward check) and saga-compensation (rollback).
func Consumers(svc *Service, readers bus.ReaderFactory, dlqWriter bus.DeadLetterWriter, log *zap.Logger) []*bus.Consumer {
	policy := retry.Default()

	forward := bus.Dispatch(map[events.Type]bus.Handler{
		events.PaymentInitiated: svc.HandlePaymentInitiated,
	})
	compensation := bus.Dispatch(map[events.Type]bus.Handler{
		events.OrderCancelled: svc.HandleCompensation,
		events.PaymentFailed:  svc.HandleCompensation,
	})

	return []*bus.Consumer{
		{
			Reader:  readers.NewReader(events.TopicPaymentSaga, ConsumerGroup),
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
