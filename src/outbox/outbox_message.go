package outbox

import (
	"encoding/json"

	"docvault/pkg/utilities"
	"docvault/pkg/utilities/timeutil"
	"docvault/src/model"
)

type DomainEventMessage struct {
	EventId     string           `json:"event_id"`
	EventType   string           `json:"event_type"`
	AggregateId string           `json:"aggregate_id"`
	Payload     json.RawMessage  `json:"payload"`
	OccurredAt  timeutil.TimeUTC `json:"occurred_at"`
}

func (m DomainEventMessage) Serialize() ([]byte, error) {
	return utilities.Serialize(m)
}

func MapToDomainEventMessage(e model.OutboxEvent) DomainEventMessage {
	payload := json.RawMessage(e.Payload)
	if !json.Valid(payload) {
		payload, _ = json.Marshal(e.Payload)
	}

	return DomainEventMessage{
		EventId:     e.EventId.String(),
		EventType:   e.EventType,
		AggregateId: e.AggregateId.String(),
		Payload:     payload,
		OccurredAt:  timeutil.FromTime(e.CreatedAt),
	}
}
