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

package kafka

import (
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// This suite covers the parts of the adapter that don't require a live
// broker: envelope encoding and writer/reader construction. Round-tripping
// against an actual Kafka cluster is left to integration testing, same
// boundary the teacher draws around its own reader/writer factories.

func TestMarshalEnvelopeRoundTrips(t *testing.T) {
	env, err := events.New(events.PaymentInitiated, "saga-1", "", "order-service", events.PaymentInitiatedPayload{
		OrderID: "order-1",
		Amount:  42.5,
	})
	require.NoError(t, err)

	raw, err := marshalEnvelope(env)
	require.NoError(t, err)

	var decoded events.Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, env.SagaID, decoded.SagaID)
	assert.Equal(t, env.EventType, decoded.EventType)
}

func TestItoaFormatsRetryCount(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "3", itoa(3))
}

func TestWriterForIsKeyedBySagaIDHash(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})

	w := p.writerFor(events.TopicPaymentSaga)
	assert.Same(t, w, p.writerFor(events.TopicPaymentSaga), "writer is cached per topic, not rebuilt per publish")
	assert.IsType(t, &kafkago.Hash{}, w.Balancer, "partition key must be sagaId, so balancer hashes the message key")
	assert.Equal(t, kafkago.RequireAll, w.RequiredAcks)

	other := p.writerFor(events.TopicRiskEvents)
	assert.NotSame(t, w, other, "distinct topics get distinct writers")
}

func TestNewReaderSetsManualCommit(t *testing.T) {
	f := ReaderFactory{Brokers: []string{"localhost:9092"}}
	r := f.NewReader(events.TopicPaymentEvents, "order-service")
	defer r.Close()

	kr, ok := r.(*reader)
	require.True(t, ok)
	assert.Equal(t, events.TopicPaymentEvents, kr.topic)
	assert.Zero(t, kr.r.Config().CommitInterval, "commit interval 0 means offsets are committed only by CommitMessage")
}
