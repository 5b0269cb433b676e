package risk

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchireddy1980/payment-saga/internal/bus"
	"github.com/pitchireddy1980/payment-saga/internal/events"
)

// blacklistMarker is the baseline blacklist policy stub: any userId
// containing this substring is treated as blocked.
const blacklistMarker = "blocked"

// fraudAmountThreshold fails the fraud check above this amount.
const fraudAmountThreshold = 10000.0

// approvalThreshold: a riskScore below this is approved.
const approvalThreshold = 50

// Service implements §4.4's fraud/velocity/blacklist assessment and its
// compensation rollback.
type Service struct {
	store     Store
	publisher bus.Publisher
	log       *zap.Logger
	source    string
}

// NewService wires a Service around its store and publisher.
func NewService(store Store, publisher bus.Publisher, log *zap.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: log, source: "risk-service"}
}

// HandlePaymentInitiated computes the three checks and riskScore, persists
// the assessment, and emits RISK_CHECK_COMPLETED.
func (s *Service) HandlePaymentInitiated(ctx context.Context, env events.Envelope) error {
	var p events.PaymentInitiatedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}

	if _, err := s.store.FindBySagaID(ctx, env.SagaID); err == nil {
		return nil // already assessed: idempotent no-op
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	fraudCheck := p.Amount <= fraudAmountThreshold
	velocityCheck := true
	blacklistCheck := !strings.Contains(p.UserID, blacklistMarker)

	score := 0
	if !fraudCheck {
		score += 40
	}
	if !velocityCheck {
		score += 30
	}
	if !blacklistCheck {
		score += 30
	}
	// Blacklist and fraud are hard declines: a failed check of either kind
	// always fails approval regardless of where the point total lands
	// relative to approvalThreshold (a blacklist-only decline scores 30, a
	// fraud-only decline scores 40, and both are still declined).
	approved := score < approvalThreshold && blacklistCheck && fraudCheck

	a := &Assessment{
		ID:             uuid.NewString(),
		OrderID:        p.OrderID,
		SagaID:         env.SagaID,
		UserID:         p.UserID,
		RiskScore:      score,
		Approved:       approved,
		FraudCheck:     fraudCheck,
		VelocityCheck:  velocityCheck,
		BlacklistCheck: blacklistCheck,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return err
	}

	out, err := events.New(events.RiskCheckCompleted, env.SagaID, env.WithCorrelation(), s.source, events.RiskCheckCompletedPayload{
		OrderID:   p.OrderID,
		RiskScore: score,
		Approved:  approved,
		Checks: events.RiskChecks{
			FraudCheck:     fraudCheck,
			VelocityCheck:  velocityCheck,
			BlacklistCheck: blacklistCheck,
		},
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, events.TopicRiskEvents, env.SagaID, out)
}

// HandleCompensation reacts to ORDER_CANCELLED and PAYMENT_FAILED by rolling
// back the assessment for the saga, if one exists and isn't already rolled
// back. A missing assessment means compensation outran the forward event;
// it is acknowledged without effect (§4.4).
func (s *Service) HandleCompensation(ctx context.Context, env events.Envelope) error {
	var reason string
	switch env.EventType {
	case events.OrderCancelled:
		var p events.OrderCancelledPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		reason = p.Reason
	case events.PaymentFailed:
		var p events.PaymentFailedPayload
		if err := env.Decode(&p); err != nil {
			return err
		}
		reason = p.Reason
	default:
		return nil
	}

	rolledBackNow := false
	var orderID string
	err := s.store.Mutate(ctx, env.SagaID, func(a *Assessment) error {
		orderID = a.OrderID
		if a.RolledBack {
			return nil
		}
		a.RolledBack = true
		rolledBackNow = true
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !rolledBackNow {
		return nil
	}

	out, err := events.New(events.RiskCheckRollback, env.SagaID, env.WithCorrelation(), s.source, events.RiskCheckRollbackPayload{
		OrderID: orderID,
		Reason:  reason,
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, events.TopicSagaCompensation, env.SagaID, out)
}
