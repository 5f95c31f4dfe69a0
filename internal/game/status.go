package game

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// StatusKind classifies what the status line should say for a snapshot.
type StatusKind int

const (
	StatusKindGameOver StatusKind = iota
	StatusKindWaiting
	StatusKindAIThinking
	StatusKindInProgress
)

// DeriveStatus is a pure function of snapshot data. detail carries the
// terminal status token for StatusKindGameOver and is empty otherwise.
//
// An ongoing match whose side to move is seated by the reserved automated
// identity reads as "AI thinking" only for that identity's own view;
// everyone else sees a plain in-progress line.
func DeriveStatus(matchStatus string, seats Seats, turn nchess.Color, viewer, botName string) (StatusKind, string) {
	matchStatus = strings.TrimSpace(matchStatus)
	if matchStatus != StatusOngoing {
		return StatusKindGameOver, matchStatus
	}
	if !seats.Full() {
		return StatusKindWaiting, ""
	}
	if botName != "" && seats.Name(turn) == botName && viewer == botName {
		return StatusKindAIThinking, ""
	}
	return StatusKindInProgress, ""
}

// ParseTurn maps the snapshot's side-to-move token to a color.
// Unrecognized tokens default to White, matching a fresh position.
func ParseTurn(s string) nchess.Color {
	if strings.EqualFold(strings.TrimSpace(s), "black") {
		return nchess.Black
	}
	return nchess.White
}
