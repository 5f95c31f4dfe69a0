package transport

import (
	"context"

	"github.com/raunak/chess-client/pkg/gamedto"
)

// EnvelopeCallback receives every inbound frame.
type EnvelopeCallback func(env *gamedto.Envelope)

// StateCallback receives connection state transitions.
type StateCallback func(state WebSocketState)

// WebSocketState is the connection lifecycle of the channel.
type WebSocketState int

const (
	WSStateDisconnected WebSocketState = iota
	WSStateConnecting
	WSStateConnected
	WSStateReconnecting
	WSStateFailed
)

func (s WebSocketState) String() string {
	switch s {
	case WSStateConnecting:
		return "connecting"
	case WSStateConnected:
		return "connected"
	case WSStateReconnecting:
		return "reconnecting"
	case WSStateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// Channel is the bidirectional capability the client core depends on.
type Channel interface {
	Connect(ctx context.Context) error
	Emit(ctx context.Context, event string, payload any) error
	OnMessage(cb EnvelopeCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
