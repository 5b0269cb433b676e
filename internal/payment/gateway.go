package payment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrGatewayDeclined is returned by a simulated charge or refund call that
// rolled a synthetic failure.
var ErrGatewayDeclined = errors.New("payment gateway declined the request")

// Gateway is the external payment processor adapter. The saga core treats
// it as a side-effectful collaborator with success/failure outcomes; this
// package supplies the only implementation, an in-process simulator, since
// no live gateway is in scope.
type Gateway interface {
	Charge(ctx context.Context, amount float64, currency string) (gatewayTransactionID, authCode string, err error)
	Refund(ctx context.Context, gatewayTransactionID string, amount float64) (refundID string, err error)
}

// SimulatedGateway reproduces the reference gateway client's behavior: a
// fixed processing delay and a configurable synthetic failure rate, used in
// place of a real acquirer integration.
type SimulatedGateway struct {
	FailureRate float64
	Latency     time.Duration
}

// NewSimulatedGateway returns a gateway with the given failure rate and the
// reference implementation's 1-second simulated processing delay.
func NewSimulatedGateway(failureRate float64) *SimulatedGateway {
	return &SimulatedGateway{FailureRate: failureRate, Latency: time.Second}
}

// Charge simulates an authorization call.
func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, currency string) (string, string, error) {
	if err := g.sleep(ctx); err != nil {
		return "", "", err
	}
	if rand.Float64() < g.FailureRate {
		return "", "", ErrGatewayDeclined
	}
	return "GW-" + uuid.NewString(), "AUTH-" + uuid.NewString()[:8], nil
}

// Refund simulates a refund call against a previously completed charge.
func (g *SimulatedGateway) Refund(ctx context.Context, gatewayTransactionID string, amount float64) (string, error) {
	if err := g.sleep(ctx); err != nil {
		return "", err
	}
	if rand.Float64() < g.FailureRate {
		return "", ErrGatewayDeclined
	}
	return "REF-" + uuid.NewString(), nil
}

func (g *SimulatedGateway) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.Latency):
		return nil
	}
}
