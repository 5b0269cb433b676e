package notification

import (
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// ConsumerGroup is the bus consumer group identity for the Notification
// service.
const ConsumerGroup = "notification-service"

// Consumers builds the two consumer workers Notification runs:
// payment-events and saga-compensation.
func Consumers(svc *Service, readers bus.ReaderFactory, dlqWriter bus.DeadLetterWriter, log *zap.Logger) []*bus.Consumer {
	policy := retry.Default()

	paymentHandler := bus.Dispatch(map[events.Type]bus.Handler{
		events.PaymentProcessed: svc.HandlePaymentProcessed,
		events.PaymentFailed:    svc.HandlePaymentFailed,
	})
	compensationHandler := bus.Dispatch(map[events.Type]bus.Handler{
		events.OrderCancelled:  svc.HandleOrderCancelled,
		events.PaymentRefunded: svc.HandlePaymentRefunded,
	})

	return []*bus.Consumer{
		{
			Reader:  readers.NewReader(events.TopicPaymentEvents, ConsumerGroup),
			Handler: paymentHandler,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
		{
			Reader:  readers.NewReader(events.TopicSagaCompensation, ConsumerGroup),
			Handler: compensationHandler,
			Policy:  policy,
			DLQ:     dlqWriter,
			Log:     log,
			Workers: 2,
		},
	}
}
