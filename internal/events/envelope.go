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

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is the schema version stamped on every envelope this
// module emits. Bump it when a payload shape changes in a breaking way.
const EnvelopeVersion = 1

// DefaultTimeoutMs is the advisory per-event timeout used when a caller does
// not set one explicitly. It is advisory only: an expired event is still
// processed, never dropped on age alone.
const DefaultTimeoutMs = 15000

// DefaultMaxRetries is the default handler-retry budget recorded in every
// envelope's metadata.
const DefaultMaxRetries = 3

// Metadata travels alongside every envelope and is set at publish time.
// RetryCount is also copied into the Kafka retry-count header; the consumer
// loop retries in place and does not change it.
type Metadata struct {
	RetryCount     int            `json:"retryCount"`
	MaxRetries     int            `json:"maxRetries"`
	TimeoutMs      int            `json:"timeoutMs"`
	Source         string         `json:"source"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

// Envelope is the self-describing message every topic carries. Payload is
// kept as raw JSON so the discriminator (Type) can be inspected before the
// caller decides which concrete payload shape to decode it into.
type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     Type            `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SagaID        string          `json:"sagaId"`
	CorrelationID string          `json:"correlationId"`
	Version       int             `json:"version"`
	Metadata      Metadata        `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
}

// New builds an envelope around a payload, marshaling it to raw JSON.
// eventId, timestamp, and correlationId are generated when the caller
// doesn't already have one to propagate, matching the enrichment-on-publish
// contract: a handler that is forwarding a causal chain passes its own
// correlationId through, an initiator leaves it empty and gets a fresh one.
func New(eventType Type, sagaID, correlationID string, source string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal payload for %s: %w", eventType, err)
	}
	return Enrich(Envelope{
		EventType:     eventType,
		SagaID:        sagaID,
		CorrelationID: correlationID,
		Version:       EnvelopeVersion,
		Metadata: Metadata{
			MaxRetries: DefaultMaxRetries,
			TimeoutMs:  DefaultTimeoutMs,
			Source:     source,
		},
		Payload: raw,
	}), nil
}

// Enrich fills in fields a publisher is allowed to leave blank: eventId,
// timestamp, and correlationId. It is idempotent — calling it twice on an
// already-enriched envelope changes nothing.
func Enrich(env Envelope) Envelope {
	if env.EventID == "" {
		env.EventID = uuid.NewString()
	}
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}
	if env.CorrelationID == "" {
		env.CorrelationID = env.EventID
	}
	if env.Version == 0 {
		env.Version = EnvelopeVersion
	}
	if env.Metadata.MaxRetries == 0 {
		env.Metadata.MaxRetries = DefaultMaxRetries
	}
	if env.Metadata.TimeoutMs == 0 {
		env.Metadata.TimeoutMs = DefaultTimeoutMs
	}
	return env
}

// Decode unmarshals the envelope's raw payload into dst, which must be a
// pointer to one of the payload types in payloads.go.
func (e Envelope) Decode(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("events: decode payload for %s: %w", e.EventType, err)
	}
	return nil
}

// WithCorrelation returns the correlationId to carry forward (falling back
// to the eventId when none is set), used when a handler emits a follow-on
// event caused by a received one.
func (e Envelope) WithCorrelation() string {
	if e.CorrelationID != "" {
		return e.CorrelationID
	}
	return e.EventID
}
