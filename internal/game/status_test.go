package game

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func TestDeriveStatus(t *testing.T) {
	both := Seats{"alice", "raunak"}

	tests := []struct {
		name       string
		status     string
		seats      Seats
		turn       nchess.Color
		viewer     string
		wantKind   StatusKind
		wantDetail string
	}{
		{"terminal status", "checkmate", both, nchess.White, "alice", StatusKindGameOver, "checkmate"},
		{"draw status", "draw", both, nchess.Black, "alice", StatusKindGameOver, "draw"},
		{"one seat open", StatusOngoing, Seats{"alice"}, nchess.White, "alice", StatusKindWaiting, ""},
		{"bot to move, bot viewing", StatusOngoing, both, nchess.Black, "raunak", StatusKindAIThinking, ""},
		{"bot to move, human viewing", StatusOngoing, both, nchess.Black, "alice", StatusKindInProgress, ""},
		{"human to move", StatusOngoing, both, nchess.White, "alice", StatusKindInProgress, ""},
		{"no bot seated", StatusOngoing, Seats{"alice", "bob"}, nchess.Black, "alice", StatusKindInProgress, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, detail := DeriveStatus(tt.status, tt.seats, tt.turn, tt.viewer, "raunak")
			if kind != tt.wantKind || detail != tt.wantDetail {
				t.Fatalf("DeriveStatus = %v, %q; want %v, %q", kind, detail, tt.wantKind, tt.wantDetail)
			}
		})
	}
}

func TestParseTurn(t *testing.T) {
	if ParseTurn("black") != nchess.Black || ParseTurn("BLACK") != nchess.Black {
		t.Errorf("black token must parse as Black")
	}
	if ParseTurn("white") != nchess.White || ParseTurn("") != nchess.White {
		t.Errorf("anything else defaults to White")
	}
}
