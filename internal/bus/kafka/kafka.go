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

// Package kafka binds internal/bus to github.com/segmentio/kafka-go: one
// kafka.Writer per topic per publisher and one kafka.Reader per
// bus.Consumer (shared by its workers), manual commit only, sagaId as the
// partition key.
package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Publisher wraps a pool of kafka.Writer instances, one per topic, created
// lazily on first use.
type Publisher struct {
	brokers []string
	writers map[events.Topic]*kafkago.Writer
}

// NewPublisher returns a Publisher that dials brokers on first publish.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{brokers: brokers, writers: make(map[events.Topic]*kafkago.Writer)}
}

func (p *Publisher) writerFor(topic events.Topic) *kafkago.Writer {
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        string(topic),
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	p.writers[topic] = w
	return w
}

// Publish writes env to topic with key as the partition key, so every event
// for one saga lands on the same partition regardless of which participant
// wrote it.
func (p *Publisher) Publish(ctx context.Context, topic events.Topic, key string, env events.Envelope) error {
	value, err := marshalEnvelope(env)
	if err != nil {
		return err
	}
	return p.writerFor(topic).WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "eventType", Value: []byte(env.EventType)},
			{Key: "eventId", Value: []byte(env.EventID)},
			{Key: "correlationId", Value: []byte(env.CorrelationID)},
			{Key: "retry-count", Value: []byte(itoa(env.Metadata.RetryCount))},
		},
	})
}

// Close flushes and closes every writer this publisher opened.
func (p *Publisher) Close() error {
	var first error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReaderFactory opens kafka.Reader instances against a fixed broker list.
type ReaderFactory struct {
	Brokers []string
}

// NewReader opens a manual-commit reader for topic under groupID. Each call
// opens a separate kafka.Reader; a Consumer's workers share the one it is
// given.
func (f ReaderFactory) NewReader(topic events.Topic, groupID string) bus.Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        f.Brokers,
		GroupID:        groupID,
		Topic:          string(topic),
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // manual commit: Consumer calls CommitMessage after the handler succeeds
		StartOffset:    kafkago.FirstOffset,
	})
	return &reader{r: r, topic: topic}
}

type reader struct {
	r     *kafkago.Reader
	topic events.Topic
}

func (r *reader) FetchMessage(ctx context.Context) (bus.Message, error) {
	msg, err := r.r.FetchMessage(ctx)
	if err != nil {
		return bus.Message{}, err
	}
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return bus.Message{
		Topic:     r.topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       string(msg.Key),
		Value:     msg.Value,
		Headers:   headers,
	}, nil
}

func (r *reader) CommitMessage(ctx context.Context, msg bus.Message) error {
	return r.r.CommitMessages(ctx, kafkago.Message{
		Topic:     string(msg.Topic),
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
}

func (r *reader) Close() error { return r.r.Close() }
