package game

import (
	"errors"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
)

// MatchStatus values as reported by the server.
const (
	StatusOngoing = "ongoing"
)

var ErrBadFEN = errors.New("invalid fen in server payload")

// Session is the identity bound at join time and cleared on leave.
type Session struct {
	Username string
	RoomID   string
}

func (s Session) Empty() bool { return s.Username == "" }

// Seats is the ordered player list as supplied by the server:
// index 0 plays White, index 1 plays Black.
type Seats []string

// SeatOf returns the color bound to name. ok is false for spectators.
func (s Seats) SeatOf(name string) (nchess.Color, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nchess.NoColor, false
	}
	if len(s) > 0 && s[0] == name {
		return nchess.White, true
	}
	if len(s) > 1 && s[1] == name {
		return nchess.Black, true
	}
	return nchess.NoColor, false
}

// Name returns the username seated on color, or "" when the seat is open.
func (s Seats) Name(color nchess.Color) string {
	switch color {
	case nchess.White:
		if len(s) > 0 {
			return s[0]
		}
	case nchess.Black:
		if len(s) > 1 {
			return s[1]
		}
	}
	return ""
}

func (s Seats) Full() bool { return len(s) >= 2 }

// Flipped reports whether the board should render Black-side-down for
// viewer. Spectators and White see the standard orientation.
func (s Seats) Flipped(viewer string) bool {
	color, ok := s.SeatOf(viewer)
	return ok && color == nchess.Black
}

// Match is the whole client-side state of one joined match. The websocket
// reader and the input reader run on separate goroutines; callers hold Mu
// across any compound read-modify sequence.
type Match struct {
	Mu sync.Mutex

	Session Session
	Seats   Seats
	Status  string

	// Game is the single live rules-engine reference. It is replaced
	// wholesale on every authoritative update and never mutated in place.
	Game *nchess.Game
}

func NewMatch() *Match {
	return &Match{}
}

// SetSnapshotLocked applies a full server snapshot. Mu must be held.
func (m *Match) SetSnapshotLocked(fen string, players []string, status string) error {
	if err := m.ReplacePositionLocked(fen); err != nil {
		return err
	}
	m.Seats = append(Seats(nil), players...)
	m.Status = strings.TrimSpace(status)
	return nil
}

// ReplacePositionLocked swaps the rules-engine reference for a fresh one
// built from fen. Mu must be held.
func (m *Match) ReplacePositionLocked(fen string) error {
	fenOpt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return ErrBadFEN
	}
	m.Game = nchess.NewGame(fenOpt)
	return nil
}

// ResetLocked clears everything bound at join time. Mu must be held.
func (m *Match) ResetLocked() {
	m.Session = Session{}
	m.Seats = nil
	m.Status = ""
	m.Game = nil
}

// FENLocked returns the current position serialization, or "" before the
// first snapshot. Mu must be held.
func (m *Match) FENLocked() string {
	if m.Game == nil {
		return ""
	}
	return m.Game.Position().String()
}
