package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	EventLineCreated     = "line_created"
	EventLineIncremented = "line_incremented"
	EventLineDecremented = "line_decremented"
	EventLineDeleted     = "line_deleted"
	EventCartCleared     = "cart_cleared"
	EventCartSynced      = "cart_synced"

	DefaultTopic = "cart_events"

	publishTimeout = 3 * time.Second
)

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	LineID    string    `json:"line_id,omitempty"`
	ProductID int       `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Count     int       `json:"count,omitempty"`
	Failed    int       `json:"failed,omitempty"`
	At        time.Time `json:"at"`
}

// publish never fails the calling operation: the state change is already
// committed when it runs.
func (s *OrderService) publish(ctx context.Context, userID uuid.UUID, ev CartEvent) {
	if s.Events == nil {
		return
	}
	ev.UserID = userID.String()
	ev.At = time.Now().UTC()

	topic := s.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, topic, ev.UserID, ev); err != nil {
		logging.FromContext(ctx).Warn("cart_event_publish_failed", "type", ev.Type, "error", err)
	}
}
