package board

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Cell is one addressable square of the projected board.
type Cell struct {
	Square   nchess.Square
	Coord    string
	Light    bool
	Glyph    string
	Selected bool
	Target   bool
}

// Grid is the full projection, visual row-major: index 0 is the top-left
// cell as the viewer sees it.
type Grid [64]Cell

// Options control one render. Selected/Targets are supplied by the
// controller; the renderer itself holds no state between calls.
type Options struct {
	Flipped  bool
	Selected nchess.Square
	Targets  []nchess.Square
}

// Render projects a position into a grid of 64 cells. Orientation permutes
// which visual slot an algebraic square occupies; a square's light/dark
// parity and coordinate never change with orientation.
func Render(b *nchess.Board, opts Options) Grid {
	var grid Grid
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			file := nchess.File(col)
			rank := nchess.Rank(7 - row)
			if opts.Flipped {
				file = nchess.File(7 - col)
				rank = nchess.Rank(row)
			}
			sq := nchess.NewSquare(file, rank)
			cell := Cell{
				Square: sq,
				Coord:  sq.String(),
				Light:  (int(file)+int(rank))%2 == 1,
			}
			if b != nil {
				if piece := b.Piece(sq); piece != nchess.NoPiece {
					cell.Glyph = glyphFor(piece)
				}
			}
			if sq == opts.Selected && opts.Selected != nchess.NoSquare {
				cell.Selected = true
			}
			for _, t := range opts.Targets {
				if t == sq {
					cell.Target = true
					break
				}
			}
			grid[row*8+col] = cell
		}
	}
	return grid
}

func glyphFor(piece nchess.Piece) string {
	white := piece.Color() == nchess.White
	switch piece.Type() {
	case nchess.King:
		if white {
			return "♔"
		}
		return "♚"
	case nchess.Queen:
		if white {
			return "♕"
		}
		return "♛"
	case nchess.Rook:
		if white {
			return "♖"
		}
		return "♜"
	case nchess.Bishop:
		if white {
			return "♗"
		}
		return "♝"
	case nchess.Knight:
		if white {
			return "♘"
		}
		return "♞"
	case nchess.Pawn:
		if white {
			return "♙"
		}
		return "♟"
	default:
		return ""
	}
}

// ParseSquare converts an algebraic coordinate such as "e2".
func ParseSquare(s string) (nchess.Square, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return nchess.NoSquare, false
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nchess.NoSquare, false
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), true
}
