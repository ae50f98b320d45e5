package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BoardAccessChecker decides whether a user may watch a board. Satisfied by
// the postgres board repository, optionally wrapped in the Redis access cache.
type BoardAccessChecker interface {
	CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
}

// Config holds hub tuning knobs.
type Config struct {
	// SendBuffer is the per-connection outbound queue length.
	SendBuffer int
	// WriteTimeout bounds a single push write; an overdue write is treated
	// as a dead connection.
	WriteTimeout time.Duration
	// HeartbeatInterval is the probe cadence.
	HeartbeatInterval time.Duration
	// HeartbeatGrace is how long a stale connection may stay unacknowledged
	// before it is closed and removed.
	HeartbeatGrace time.Duration
}

// Hub fans board-change events out to the connections currently watching the
// affected board. Delivery is best-effort and at-most-once: a client that
// misses an event reconciles by reloading the board, not by replay.
type Hub struct {
	registry *Registry
	access   BoardAccessChecker
	cfg      Config
}

// New creates a hub with an empty registry.
func New(cfg Config, access BoardAccessChecker) *Hub {
	return &Hub{
		registry: NewRegistry(cfg.SendBuffer, cfg.WriteTimeout),
		access:   access,
		cfg:      cfg,
	}
}

// Registry exposes the subscription registry, mainly for the heartbeat
// monitor and tests.
func (h *Hub) Registry() *Registry { return h.registry }

// Publish delivers a board-scoped event to every open connection subscribed
// to the board, excluding the connection of the user who triggered it.
// Per-connection failures are isolated: a broken subscriber is logged and
// dropped, and delivery to the remaining subscribers continues. Events
// without a board ID are discarded; system messages go directly to their
// target connection instead.
func (h *Hub) Publish(_ context.Context, ev Event) {
	if ev.BoardID == nil {
		log.Debug().Str("type", string(ev.Type)).Msg("hub: dropping event without board id")
		return
	}

	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Msg("hub: marshal event")
		return
	}

	subs := h.registry.SubscribersOf(*ev.BoardID)
	for _, conn := range subs {
		if ev.TriggeredBy != nil && conn.UserID() == *ev.TriggeredBy {
			continue
		}
		if err := conn.enqueue(frame); err != nil {
			log.Debug().
				Err(err).
				Str("user_id", conn.UserID().String()).
				Str("board_id", ev.BoardID.String()).
				Msg("hub: dropping subscriber after failed push")
			h.registry.drop(conn)
		}
	}
}

// PublishBoardEvent is the producer surface used by API handlers after a
// committed state change.
func (h *Hub) PublishBoardEvent(ctx context.Context, t EventType, boardID uuid.UUID, payload any, triggeredBy uuid.UUID) {
	h.Publish(ctx, NewBoardEvent(t, boardID, payload, triggeredBy))
}

// Subscribe adds a board watch for the user after checking board access.
// An unauthorized subscribe is rejected silently: no state change, no event.
func (h *Hub) Subscribe(ctx context.Context, userID, boardID uuid.UUID) error {
	allowed, err := h.access.CanView(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if !allowed {
		log.Debug().
			Str("user_id", userID.String()).
			Str("board_id", boardID.String()).
			Msg("hub: subscribe rejected")
		return nil
	}
	h.registry.Subscribe(userID, boardID)
	return nil
}

// Unsubscribe removes a board watch. Idempotent.
func (h *Hub) Unsubscribe(userID, boardID uuid.UUID) {
	h.registry.Unsubscribe(userID, boardID)
}
