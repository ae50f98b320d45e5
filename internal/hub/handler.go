package hub

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/corkboard/internal/server/middleware"
)

// clientMessage is an inbound frame on the stream: a board watch change or
// a heartbeat acknowledgment.
type clientMessage struct {
	Action  string    `json:"action"` // "subscribe", "unsubscribe", "heartbeat_ack"
	BoardID uuid.UUID `json:"board_id,omitempty"`
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Write(ctx context.Context, frame []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, frame)
}

func (t *wsTransport) Close(reason string) error {
	return t.conn.Close(websocket.StatusNormalClosure, reason)
}

// ServeStream handles the long-lived per-user event stream. The client
// subscribes and unsubscribes boards over the same socket while navigating;
// the server pushes one JSON event per text message.
func (h *Hub) ServeStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer ws.CloseNow()

	conn := h.registry.Register(userID, &wsTransport{conn: ws})
	defer h.registry.drop(conn)

	// Tell the client the stream is live before any board-scoped event.
	if ackErr := conn.Send(ackEvent()); ackErr != nil {
		return
	}

	ctx := r.Context()
	for {
		_, data, readErr := ws.Read(ctx)
		if readErr != nil {
			log.Debug().Err(readErr).Str("user_id", userID.String()).Msg("websocket read")
			return
		}
		h.handleClientMessage(ctx, conn, data)
	}
}

func (h *Hub) handleClientMessage(ctx context.Context, conn *Connection, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Err(err).Str("user_id", conn.UserID().String()).Msg("hub: bad client message")
		return
	}

	switch msg.Action {
	case "subscribe":
		if err := h.Subscribe(ctx, conn.UserID(), msg.BoardID); err != nil {
			log.Warn().Err(err).
				Str("user_id", conn.UserID().String()).
				Str("board_id", msg.BoardID.String()).
				Msg("hub: subscribe failed")
		}
	case "unsubscribe":
		h.Unsubscribe(conn.UserID(), msg.BoardID)
	case "heartbeat_ack":
		conn.markActive()
	default:
		log.Debug().Str("action", msg.Action).Msg("hub: unknown client action")
	}
}
