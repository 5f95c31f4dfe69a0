package gamedto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event names carried on the websocket, client → server.
const (
	EventJoinRoom   = "join_room"
	EventPlayerMove = "player_move"
)

// Event names carried on the websocket, server → client.
const (
	EventGameState            = "game_state"
	EventMoveUpdate           = "move_update"
	EventPlayerJoined         = "player_joined"
	EventOpponentDisconnected = "opponent_disconnected"
	EventError                = "error"
)

// Envelope is the frame shape for every websocket message. Data holds the
// event-specific payload and stays raw until the dispatcher knows the kind.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps a typed payload for sending.
func NewEnvelope(event string, payload any) (*Envelope, error) {
	env := &Envelope{Event: strings.TrimSpace(event)}
	if env.Event == "" {
		return nil, fmt.Errorf("empty event name")
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", event, err)
		}
		env.Data = raw
	}
	return env, nil
}

// Decode unmarshals the payload into out.
func (e *Envelope) Decode(out any) error {
	if e == nil {
		return fmt.Errorf("nil envelope")
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("%s: empty payload", e.Event)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Event, err)
	}
	return nil
}

type JoinRoomRequest struct {
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
}

// PlayerMoveRequest proposes a move. FEN is the sender's last-known
// position, informational only; the server validates against its own state.
type PlayerMoveRequest struct {
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
	FEN      string `json:"fen"`
	MoveUCI  string `json:"move_uci"`
}

// GameState is the full authoritative snapshot. Players is ordered:
// index 0 plays White, index 1 plays Black.
type GameState struct {
	FEN     string   `json:"fen"`
	Players []string `json:"players"`
	Status  string   `json:"status"`
	Turn    string   `json:"turn"`
}

type MoveUpdate struct {
	FEN string `json:"fen"`
}

type PlayerJoined struct {
	Players []string `json:"players"`
}

type ServerError struct {
	Message string `json:"message"`
}

// RoomInfo is one entry of the HTTP room-listing side channel.
type RoomInfo struct {
	RoomID string `json:"room_id"`
}
