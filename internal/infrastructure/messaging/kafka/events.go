// Package kafka carries the refresh event topics between the apiserver and
// the build worker.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

const (
	// TopicRefreshRequested asks a worker to rebuild one session's stats.
	TopicRefreshRequested = "billstats.refresh.requested"
	// TopicStatsBuilt announces a completed build.
	TopicStatsBuilt = "billstats.stats.built"
)

// EventEnvelope is the wire shape of every event.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// RefreshRequestedPayload carries one rebuild request.
type RefreshRequestedPayload struct {
	Session     int       `json:"session"`
	Incremental bool      `json:"incremental"`
	RequestedAt time.Time `json:"requested_at"`
}

// StatsBuiltPayload announces one finished build.
type StatsBuiltPayload struct {
	Session           int       `json:"session"`
	TotalBills        int       `json:"total_bills"`
	TotalLaws         int       `json:"total_laws"`
	UnmatchedSponsors int       `json:"unmatched_sponsors"`
	BuiltAt           time.Time `json:"built_at"`
}

// NewEventEnvelope wraps a payload for publishing.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return apperrors.New(apperrors.ErrCodeInternal, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to decode event payload")
	}
	return nil
}

// ParseEnvelope decodes one received message value.
func ParseEnvelope(value []byte) (*EventEnvelope, error) {
	if len(value) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "empty event message")
	}
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to decode event envelope")
	}
	return &env, nil
}

//Personal.AI order the ending
