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

// Package membus is an in-process bus.Publisher/bus.ReaderFactory used by
// integration-style tests that exercise a participant's wiring without a
// live Kafka cluster. It preserves the one property the saga core actually
// depends on: per-key FIFO delivery to each consumer group.
package membus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Broker is a shared in-memory log. Each consumer group gets its own cursor
// per topic, so a message published once is delivered once to every group
// that has subscribed, matching Kafka consumer-group fan-out semantics.
type Broker struct {
	mu     sync.Mutex
	topics map[events.Topic][]bus.Message
	groups map[string]map[events.Topic]int
	notify map[events.Topic][]chan struct{}
}

// New returns an empty broker.
func New() *Broker {
	return &Broker{
		topics: make(map[events.Topic][]bus.Message),
		groups: make(map[string]map[events.Topic]int),
		notify: make(map[events.Topic][]chan struct{}),
	}
}

// Publish appends env to topic's log and wakes any blocked readers.
func (b *Broker) Publish(_ context.Context, topic events.Topic, key string, env events.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	b.mu.Lock()
	msg := bus.Message{Topic: topic, Partition: 0, Offset: int64(len(b.topics[topic])), Key: key, Value: value}
	b.topics[topic] = append(b.topics[topic], msg)
	waiters := b.notify[topic]
	b.notify[topic] = nil
	b.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
	return nil
}

// Close is a no-op; the broker has no external resources to release.
func (b *Broker) Close() error { return nil }

// NewReader returns a Reader scoped to one consumer group's cursor on topic.
func (b *Broker) NewReader(topic events.Topic, groupID string) bus.Reader {
	return &reader{broker: b, topic: topic, group: groupID}
}

type reader struct {
	broker *Broker
	topic  events.Topic
	group  string
}

func (r *reader) FetchMessage(ctx context.Context) (bus.Message, error) {
	for {
		r.broker.mu.Lock()
		cursor := r.broker.groups[r.group][r.topic]
		log := r.broker.topics[r.topic]
		if cursor < len(log) {
			msg := log[cursor]
			r.broker.mu.Unlock()
			return msg, nil
		}
		ch := make(chan struct{})
		r.broker.notify[r.topic] = append(r.broker.notify[r.topic], ch)
		r.broker.mu.Unlock()

		select {
		case <-ctx.Done():
			return bus.Message{}, ctx.Err()
		case <-ch:
		}
	}
}

func (r *reader) CommitMessage(_ context.Context, msg bus.Message) error {
	r.broker.mu.Lock()
	defer r.broker.mu.Unlock()
	if r.broker.groups[r.group] == nil {
		r.broker.groups[r.group] = make(map[events.Topic]int)
	}
	if next := int(msg.Offset) + 1; next > r.broker.groups[r.group][r.topic] {
		r.broker.groups[r.group][r.topic] = next
	}
	return nil
}

func (r *reader) Close() error { return nil }
