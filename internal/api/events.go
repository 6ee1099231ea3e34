package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blemapper/blemapper-core/internal/infrastructure/mqtt"
)

// catalogEvent is the JSON payload published after catalog mutations.
type catalogEvent struct {
	Action    string `json:"action"`
	UUID      string `json:"uuid,omitempty"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

// publishEvent announces a catalog change on the event topic.
// Publishing is best-effort: without a broker (or during an outage) the
// catalog keeps working and the failure is only logged.
func (s *Server) publishEvent(_ context.Context, action, uuid string, count int) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(catalogEvent{
		Action:    action,
		UUID:      uuid,
		Count:     count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error("failed to encode catalog event", "action", action, "error", err)
		return
	}

	if err := s.events.Publish(mqtt.TopicCatalogEvent, payload, s.events.QoS(), false); err != nil {
		s.logger.Warn("failed to publish catalog event",
			"action", action,
			"uuid", uuid,
			"error", err,
		)
	}
}
