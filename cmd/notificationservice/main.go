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

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/kafka"
	"github.com/pitchireddy1980/payment-saga/internal/notification"
	"github.com/pitchireddy1980/payment-saga/internal/platform/cli"
	"github.com/pitchireddy1980/payment-saga/internal/platform/config"
	"github.com/pitchireddy1980/payment-saga/internal/platform/logging"
)

func main() {
	root := &cobra.Command{
		Use:     "notificationservice",
		Short:   "Notification service: dispatches dedup'd, best-effort user messages for saga outcomes",
		Version: "0.1.0",
	}
	root.AddCommand(newServeCmd())

	if err := cli.Run(root); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the notification service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logging.Init("notification-service")
	log := logging.Get()

	cfg, err := config.Load("notificationservice")
	if err != nil {
		return err
	}

	publisher := kafka.NewPublisher(cfg.Bus.Brokers)
	defer publisher.Close()
	readers := kafka.ReaderFactory{Brokers: cfg.Bus.Brokers}
	dlq := bus.PublisherDeadLetterWriter{Publisher: publisher, Source: "notification-service"}

	dedup := dedupStoreFor(cfg.Notification, log)
	email := notification.NewEmailChannel(log)
	svc := notification.NewService(dedup, email, log)
	consumers := notification.Consumers(svc, readers, dlq, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *bus.Consumer) {
			defer wg.Done()
			c.Run(ctx)
		}(c)
	}
	log.Info("notification service running", zap.String("dedupStore", cfg.Notification.DedupStore))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutdown signal received, stopping notification service...")
	cancel()
	wg.Wait()
	log.Info("notification service shut down")
	return nil
}

// dedupStoreFor picks the in-process dedup set by default, or a
// Redis-backed one when configured — the only config-driven branch point
// in the notification wiring, matching the design note's pluggable-set
// open question.
func dedupStoreFor(cfg config.Notification, log *zap.Logger) notification.DedupStore {
	if cfg.DedupStore != "redis" {
		return notification.NewMemoryDedupStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Info("using redis dedup store", zap.String("addr", cfg.RedisAddr))
	return notification.NewRedisDedupStore(client)
}
