package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnrichesEnvelope(t *testing.T) {
	env, err := New(PaymentInitiated, "saga-1", "", "order-service", PaymentInitiatedPayload{
		OrderID: "order-1",
		UserID:  "user-1",
		Amount:  99.99,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.False(t, env.Timestamp.IsZero())
	assert.Equal(t, env.EventID, env.CorrelationID)
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.Equal(t, DefaultMaxRetries, env.Metadata.MaxRetries)
	assert.Equal(t, DefaultTimeoutMs, env.Metadata.TimeoutMs)
}

func TestEnrichIsIdempotent(t *testing.T) {
	env, err := New(PaymentInitiated, "saga-1", "corr-1", "order-service", PaymentInitiatedPayload{OrderID: "order-1"})
	require.NoError(t, err)

	again := Enrich(env)
	assert.Equal(t, env.EventID, again.EventID)
	assert.Equal(t, env.Timestamp, again.Timestamp)
	assert.Equal(t, "corr-1", again.CorrelationID)
}

func TestDecodeRoundTrip(t *testing.T) {
	want := PaymentInitiatedPayload{
		OrderID:       "order-1",
		UserID:        "user-1",
		Amount:        149.99,
		Currency:      "USD",
		PaymentMethod: "CREDIT_CARD",
		Items:         []LineItem{{ProductID: "p1", Quantity: 2, Price: 49.99}},
	}
	env, err := New(PaymentInitiated, "saga-1", "", "order-service", want)
	require.NoError(t, err)

	var got PaymentInitiatedPayload
	require.NoError(t, env.Decode(&got))
	assert.Equal(t, want, got)
}

func TestTopicForKnownAndReserved(t *testing.T) {
	topic, ok := TopicFor(PaymentInitiated)
	assert.True(t, ok)
	assert.Equal(t, TopicPaymentSaga, topic)

	_, ok = TopicFor(SagaCompleted)
	assert.False(t, ok)
}
