package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewayAlwaysSucceedsAtZeroFailureRate(t *testing.T) {
	g := &SimulatedGateway{FailureRate: 0, Latency: time.Millisecond}
	txID, authCode, err := g.Charge(context.Background(), 10, "USD")
	require.NoError(t, err)
	assert.NotEmpty(t, txID)
	assert.NotEmpty(t, authCode)
}

func TestSimulatedGatewayAlwaysFailsAtFullFailureRate(t *testing.T) {
	g := &SimulatedGateway{FailureRate: 1, Latency: time.Millisecond}
	_, _, err := g.Charge(context.Background(), 10, "USD")
	assert.ErrorIs(t, err, ErrGatewayDeclined)
}

func TestSimulatedGatewayRefundIDPrefix(t *testing.T) {
	g := &SimulatedGateway{FailureRate: 0, Latency: time.Millisecond}
	refundID, err := g.Refund(context.Background(), "GW-1", 10)
	require.NoError(t, err)
	assert.Contains(t, refundID, "REF-")
}
