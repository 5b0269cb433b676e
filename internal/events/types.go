// Copyright © 2025 pitchireddy1980
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package events defines the wire contract shared by every saga participant:
// the closed set of event types, the topics they travel on, and the envelope
// that carries them. It is imported by all four services and by the shared
// bus packages, so the contract can only change in one place.
package events

// Type is the discriminator carried by every envelope. The set is closed;
// consumers that see an unrecognized value treat it as informational and
// acknowledge it without dispatching to a handler.
type Type string

const (
	PaymentInitiated Type = "PAYMENT_INITIATED"
	OrderConfirmed   Type = "ORDER_CONFIRMED"
	OrderCancelled   Type = "ORDER_CANCELLED"

	RiskCheckStarted   Type = "RISK_CHECK_STARTED"
	RiskCheckCompleted Type = "RISK_CHECK_COMPLETED"
	RiskCheckFailed    Type = "RISK_CHECK_FAILED"
	RiskCheckRollback  Type = "RISK_CHECK_ROLLBACK"

	PaymentProcessing Type = "PAYMENT_PROCESSING"
	PaymentProcessed  Type = "PAYMENT_PROCESSED"
	PaymentFailed     Type = "PAYMENT_FAILED"
	PaymentRefunded   Type = "PAYMENT_REFUNDED"

	NotificationSent   Type = "NOTIFICATION_SENT"
	NotificationFailed Type = "NOTIFICATION_FAILED"

	SagaCompleted Type = "SAGA_COMPLETED"
	SagaFailed    Type = "SAGA_FAILED"
	SagaTimeout   Type = "SAGA_TIMEOUT"
)

// Topic is a logical channel on the bus. Partitioning and retention are bus
// concerns; the domain layer only ever addresses a topic by name.
type Topic string

const (
	TopicPaymentSaga      Topic = "payment-saga"
	TopicRiskEvents       Topic = "risk-events"
	TopicPaymentEvents    Topic = "payment-events"
	TopicSagaCompensation Topic = "saga-compensation"
	TopicNotification     Topic = "notification-events"
	TopicDeadLetter       Topic = "dead-letter"
)

// topicByType is the routing table from §6 of the event taxonomy, exposed
// through TopicFor. The participants' publish calls name their topic
// directly rather than looking it up here.
var topicByType = map[Type]Topic{
	PaymentInitiated: TopicPaymentSaga,
	OrderConfirmed:   TopicPaymentEvents,
	OrderCancelled:   TopicSagaCompensation,

	RiskCheckStarted:   TopicRiskEvents,
	RiskCheckCompleted: TopicRiskEvents,
	RiskCheckFailed:    TopicRiskEvents,
	RiskCheckRollback:  TopicSagaCompensation,

	PaymentProcessing: TopicPaymentEvents,
	PaymentProcessed:  TopicPaymentEvents,
	PaymentFailed:     TopicPaymentEvents,
	PaymentRefunded:   TopicSagaCompensation,

	NotificationSent:   TopicNotification,
	NotificationFailed: TopicNotification,
}

// TopicFor returns the topic an event type is published on. The boolean is
// false for reserved lifecycle types (SAGA_COMPLETED and friends) that have
// no assigned topic in the baseline taxonomy.
func TopicFor(t Type) (Topic, bool) {
	topic, ok := topicByType[t]
	return topic, ok
}
