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

package bus

import (
	"context"
	"time"

	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// DeadLetter is the record written to the dead-letter topic when a message
// exhausts its retry budget: enough of the original delivery to replay or
// inspect it later, plus what killed it.
type DeadLetter struct {
	OriginalTopic events.Topic `json:"originalTopic"`
	Partition     int          `json:"partition"`
	Offset        int64        `json:"offset"`
	Key           string       `json:"key"`
	Value         []byte       `json:"value"`
	Exception     string       `json:"exception"`
	Stack         string       `json:"stack,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

// DeadLetterWriter sinks exhausted messages. A failing write is logged by
// the caller, never retried: a broken DLQ must not block the partition.
type DeadLetterWriter interface {
	WriteDeadLetter(ctx context.Context, dl DeadLetter) error
}

// PublisherDeadLetterWriter adapts a Publisher so DeadLetter records travel
// over the same bus, on TopicDeadLetter, keyed by the original message key.
type PublisherDeadLetterWriter struct {
	Publisher Publisher
	Source    string
}

// WriteDeadLetter marshals dl as the payload of a plain envelope and
// publishes it to the dead-letter topic.
func (w PublisherDeadLetterWriter) WriteDeadLetter(ctx context.Context, dl DeadLetter) error {
	env, err := events.New("", dl.Key, "", w.Source, dl)
	if err != nil {
		return err
	}
	return w.Publisher.Publish(ctx, events.TopicDeadLetter, dl.Key, env)
}
