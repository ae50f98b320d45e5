package hub

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the messages pushed over a client stream.
type EventType string

const (
	EventItemCreated     EventType = "item_created"
	EventItemUpdated     EventType = "item_updated"
	EventItemDeleted     EventType = "item_deleted"
	EventPropertyUpdated EventType = "property_updated"
	EventCommentCreated  EventType = "comment_created"
	EventConnectionAck   EventType = "connection_ack"
	EventHeartbeat       EventType = "heartbeat"
)

// Event is an immutable board-change notification. BoardID is nil for system
// events (connection_ack, heartbeat); TriggeredBy is nil for system events
// and is used to suppress echoing a user's own action back to them.
type Event struct {
	Type        EventType  `json:"type"`
	BoardID     *uuid.UUID `json:"board_id,omitempty"`
	Payload     any        `json:"payload,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	TriggeredBy *uuid.UUID `json:"triggered_by,omitempty"`
}

// NewBoardEvent builds a board-scoped event triggered by a user action.
func NewBoardEvent(t EventType, boardID uuid.UUID, payload any, triggeredBy uuid.UUID) Event {
	return Event{
		Type:        t,
		BoardID:     &boardID,
		Payload:     payload,
		Timestamp:   time.Now(),
		TriggeredBy: &triggeredBy,
	}
}

func ackEvent() Event {
	return Event{Type: EventConnectionAck, Timestamp: time.Now()}
}

func heartbeatEvent() Event {
	return Event{Type: EventHeartbeat, Timestamp: time.Now()}
}
