package view

import "github.com/raunak/chess-client/internal/board"

// Mode is which screen the client is showing.
type Mode int

const (
	ModeLobby Mode = iota
	ModeLoading
	ModeGame
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeGame:
		return "game"
	default:
		return "lobby"
	}
}

// View is the opaque render target. The core only ever pushes projections
// into it; it is never queried back for state.
type View interface {
	// SwitchTo changes the visible screen. msg is the loading message for
	// ModeLoading and ignored otherwise.
	SwitchTo(mode Mode, msg string)
	// ShowBoard replaces the rendered board wholesale.
	ShowBoard(grid board.Grid)
	// SetStatus updates the match status line.
	SetStatus(text string)
	// SetConnState updates the connection status line only.
	SetConnState(text string)
	// Notice surfaces a transient message that self-clears.
	Notice(text string)
}
