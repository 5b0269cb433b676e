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
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus/retry"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// Consumer runs N worker goroutines pulling from one Reader, decoding each
// message into an Envelope, dispatching it to Handler, retrying failures
// with Policy, and dead-lettering on exhaustion. It implements the
// consume-process-publish loop every participant shares: the handler itself
// owns the local transaction and any follow-on publish, so by the time
// Consumer sees a nil error the side effects are already durable and
// committing the offset is safe.
type Consumer struct {
	Reader  Reader
	Handler Handler
	Policy  retry.Policy
	DLQ     DeadLetterWriter
	Log     *zap.Logger
	Workers int
}

// Run launches the configured number of worker goroutines and blocks until
// ctx is cancelled, then waits for in-flight handlers to drain before
// returning. This is the graceful-shutdown contract: stop accepting new
// deliveries, drain in-flight work, then exit.
func (c *Consumer) Run(ctx context.Context) {
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.loop(ctx)
		}()
	}
	<-ctx.Done()
	wg.Wait()
}

func (c *Consumer) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Log.Error("fetch message failed", zap.Error(err))
			continue
		}
		c.process(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg Message) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		c.Log.Warn("malformed envelope, routing to dead-letter",
			zap.String("topic", string(msg.Topic)), zap.Error(err))
		c.deadLetter(ctx, msg, err)
		c.commit(ctx, msg)
		return
	}

	log := c.Log.With(
		zap.String("sagaId", env.SagaID),
		zap.String("eventType", string(env.EventType)),
		zap.String("eventId", env.EventID),
	)

	var lastErr error
	for attempt := 1; attempt <= c.Policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.Policy.Delay(attempt)):
			}
		}
		lastErr = c.Handler(ctx, env)
		if lastErr == nil {
			log.Info("handled event", zap.Int("attempt", attempt))
			c.commit(ctx, msg)
			return
		}
		log.Warn("handler failed", zap.Int("attempt", attempt), zap.Error(lastErr))
	}

	log.Error("retry budget exhausted, routing to dead-letter", zap.Error(lastErr))
	c.deadLetter(ctx, msg, lastErr)
	c.commit(ctx, msg)
}

func (c *Consumer) commit(ctx context.Context, msg Message) {
	if err := c.Reader.CommitMessage(ctx, msg); err != nil {
		c.Log.Error("commit offset failed", zap.Error(err))
	}
}

func (c *Consumer) deadLetter(ctx context.Context, msg Message, cause error) {
	if c.DLQ == nil {
		return
	}
	dl := DeadLetter{
		OriginalTopic: msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Key:           msg.Key,
		Value:         msg.Value,
		Exception:     fmt.Sprint(cause),
	}
	if err := c.DLQ.WriteDeadLetter(ctx, dl); err != nil {
		c.Log.Error("dead-letter write failed, partition advances anyway", zap.Error(err))
	}
}
