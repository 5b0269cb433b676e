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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/bus/kafka"
	"github.com/pitchireddy1980/payment-saga/internal/payment"
	"github.com/pitchireddy1980/payment-saga/internal/platform/cli"
	"github.com/pitchireddy1980/payment-saga/internal/platform/config"
	"github.com/pitchireddy1980/payment-saga/internal/platform/logging"
)

func main() {
	root := &cobra.Command{
		Use:     "paymentservice",
		Short:   "Payment service: charges the gateway on approval and refunds on compensation",
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
		Short: "Start the payment service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logging.Init("payment-service")
	log := logging.Get()

	cfg, err := config.Load("paymentservice")
	if err != nil {
		return err
	}

	db, err := gorm.Open(mysql.Open(cfg.Store.DSN), &gorm.Config{})
	if err != nil {
		log.Error("database connect failed", zap.Error(err))
		return err
	}
	store, err := payment.NewGormStore(db)
	if err != nil {
		log.Error("migrate failed", zap.Error(err))
		return err
	}

	publisher := kafka.NewPublisher(cfg.Bus.Brokers)
	defer publisher.Close()
	readers := kafka.ReaderFactory{Brokers: cfg.Bus.Brokers}
	dlq := bus.PublisherDeadLetterWriter{Publisher: publisher, Source: "payment-service"}

	gateway := payment.NewSimulatedGateway(cfg.Payment.GatewayFailureRate)
	svc := payment.NewService(store, publisher, gateway, log)
	consumers := payment.Consumers(svc, readers, dlq, log)

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
	log.Info("payment service running", zap.Float64("gatewayFailureRate", cfg.Payment.GatewayFailureRate))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutdown signal received, stopping payment service...")
	cancel()
	wg.Wait()
	log.Info("payment service shut down")
	return nil
}
