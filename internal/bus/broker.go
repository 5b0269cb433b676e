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

// Package bus defines the transport-agnostic publish/subscribe contract the
// saga core runs on, plus the consume-process-publish loop every
// participant shares: decode, dispatch, handle inside a local transaction,
// retry with backoff, dead-letter on exhaustion, ack last.
package bus

import (
	"context"

	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Publisher writes an envelope to a topic, partitioned by key. Every
// participant uses sagaId as the key so that all events of one saga are
// delivered in emission order to a single consumer within a group.
type Publisher interface {
	Publish(ctx context.Context, topic events.Topic, key string, env events.Envelope) error
	Close() error
}

// Message is one delivery off the bus, raw enough to be re-emitted verbatim
// into the dead-letter topic if its handler's retry budget is exhausted.
type Message struct {
	Topic     events.Topic
	Partition int
	Offset    int64
	Key       string
	Value     []byte
	Headers   map[string]string
}

// Reader is a single consumer worker's view of the bus: pull the next
// message, and commit it only once its side effects are durable. Commits
// are manual; there is no auto-commit mode.
type Reader interface {
	FetchMessage(ctx context.Context) (Message, error)
	CommitMessage(ctx context.Context, msg Message) error
	Close() error
}

// ReaderFactory opens a Reader for a topic under a consumer group. Each
// Consumer gets one Reader, shared by all of its worker goroutines.
type ReaderFactory interface {
	NewReader(topic events.Topic, groupID string) Reader
}

// Handler processes one decoded envelope. It is expected to be idempotent:
// observing that the local record already reflects (or has passed) the
// target state is a successful no-op, not an error.
type Handler func(ctx context.Context, env events.Envelope) error
