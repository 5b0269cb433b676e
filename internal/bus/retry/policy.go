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

// Package retry implements the exponential backoff policy used at the two
// retry sites the saga core names: the bus consumer's handler-retry/DLQ
// machinery and the payment gateway client.
package retry

import (
	"context"
	"math"
	"time"
)

// Policy is exponential backoff with a ceiling: the delay before attempt n
// (n >= 2) is Base * Multiplier^(n-2), capped at Max, applied for up to
// MaxAttempts total tries.
type Policy struct {
	Base       time.Duration
	Multiplier float64
	Max        time.Duration
	MaxAttempts int
}

// Default is the handler-retry/DLQ policy: base 2s, doubling, capped at 30s,
// three attempts per delivery.
func Default() Policy {
	return Policy{Base: 2 * time.Second, Multiplier: 2, Max: 30 * time.Second, MaxAttempts: 3}
}

// Gateway is the payment gateway call policy: base 2s, doubling, capped at
// 10s, three attempts.
func Gateway() Policy {
	return Policy{Base: 2 * time.Second, Multiplier: 2, Max: 10 * time.Second, MaxAttempts: 3}
}

// Delay returns the backoff delay before the given attempt (1-indexed: the
// delay that precedes attempt 2, 3, ...). Attempt 1 has no preceding delay.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := float64(p.Base) * math.Pow(p.Multiplier, float64(attempt-2))
	if p.Max > 0 && d > float64(p.Max) {
		d = float64(p.Max)
	}
	return time.Duration(d)
}

// Exhausted reports whether attempt has used up the retry budget.
func (p Policy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}

// Do runs fn up to p.MaxAttempts times, sleeping the policy's backoff delay
// between attempts, and returns the last error if every attempt fails or ctx
// is cancelled first. It does not distinguish retryable from terminal
// errors: callers that need that distinction inspect the error themselves
// and return nil early.
func Do(ctx context.Context, p Policy, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay(attempt)):
			}
		}
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
