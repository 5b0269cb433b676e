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

// Package logging holds the process-wide zap logger every service binary
// shares, initialized once at startup and fetched with Get from wherever a
// handler needs it.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger      *zap.Logger
	mu          sync.RWMutex
	initialized bool
)

// Init sets up the global logger for service as a production zap logger with
// a "service" field on every entry. Safe to call more than once; only the
// first call takes effect.
func Init(service string) {
	mu.Lock()
	defer mu.Unlock()
	if initialized && logger != nil {
		return
	}
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger = l.With(zap.String("service", service))
	initialized = true
}

// Get returns the global logger, initializing an unnamed one if Init was
// never called.
func Get() *zap.Logger {
	mu.RLock()
	if initialized && logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	Init("payment-saga")

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Reset clears the global logger, so that the next Init call takes effect
// again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
	logger = nil
	initialized = false
}
