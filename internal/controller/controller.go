package controller

import (
	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/internal/obslog"
	"github.com/raunak/chess-client/pkg/gamedto"
)

// Notice keys surfaced by the click state machine. The wiring renders them
// through the message catalog.
const (
	NoticeNotYourTurn  = "notice.not_your_turn"
	NoticeNotYourPiece = "notice.not_your_piece"
	NoticeInvalidMove  = "notice.invalid_move"
	NoticeSpectator    = "notice.spectator"
	NoticeAIAuto       = "notice.ai_auto"
)

// Emitter sends a move proposal out on the channel, fire-and-forget.
type Emitter func(gamedto.PlayerMoveRequest)

// Notifier surfaces a transient notice by catalog key.
type Notifier func(key string)

// Controller turns raw square clicks into validated move proposals. It is
// a two-state machine: Idle, or Selected with a set of legal targets. It
// never advances the match position itself; the board changes only when
// the server pushes a new snapshot.
type Controller struct {
	match *game.Match
	bot   string

	selected nchess.Square
	targets  []nchess.Square

	emit   Emitter
	notify Notifier
	redraw func()
}

func New(match *game.Match, botName string, emit Emitter, notify Notifier, redraw func()) *Controller {
	if emit == nil {
		emit = func(gamedto.PlayerMoveRequest) {}
	}
	if notify == nil {
		notify = func(string) {}
	}
	if redraw == nil {
		redraw = func() {}
	}
	return &Controller{
		match:    match,
		bot:      botName,
		selected: nchess.NoSquare,
		emit:     emit,
		notify:   notify,
		redraw:   redraw,
	}
}

// clickEffect is what one click resolved to; side effects run after the
// match lock is released so the redraw path can take it again.
type clickEffect struct {
	notice string
	redraw bool
	emit   *gamedto.PlayerMoveRequest
}

// Selection exposes the current selection for rendering. ok is false in
// the Idle state.
func (c *Controller) Selection() (nchess.Square, []nchess.Square, bool) {
	c.match.Mu.Lock()
	defer c.match.Mu.Unlock()
	if c.selected == nchess.NoSquare {
		return nchess.NoSquare, nil, false
	}
	return c.selected, append([]nchess.Square(nil), c.targets...), true
}

// ClearSelection drops any selection without emitting. Called by the sync
// layer whenever the position is replaced, which is when the rebuilt grid
// would have dropped the highlight anyway.
func (c *Controller) ClearSelection() {
	c.match.Mu.Lock()
	c.clearLocked()
	c.match.Mu.Unlock()
}

func (c *Controller) clearLocked() {
	c.selected = nchess.NoSquare
	c.targets = nil
}

// HandleClick processes one click at sq and runs to completion.
func (c *Controller) HandleClick(sq nchess.Square) {
	c.match.Mu.Lock()
	eff := c.clickLocked(sq)
	c.match.Mu.Unlock()

	if eff.notice != "" {
		c.notify(eff.notice)
	}
	if eff.emit != nil {
		obslog.L().Info("move_proposed",
			zap.String("room", eff.emit.RoomID),
			zap.String("uci", eff.emit.MoveUCI),
		)
		c.emit(*eff.emit)
	}
	if eff.redraw {
		c.redraw()
	}
}

func (c *Controller) clickLocked(sq nchess.Square) clickEffect {
	m := c.match
	if m.Game == nil || m.Session.Empty() {
		return clickEffect{}
	}
	if c.bot != "" && m.Session.Username == c.bot {
		return clickEffect{notice: NoticeAIAuto}
	}
	seat, seated := m.Seats.SeatOf(m.Session.Username)
	if !seated {
		return clickEffect{notice: NoticeSpectator}
	}

	pos := m.Game.Position()
	if c.selected == nchess.NoSquare {
		return c.selectLocked(pos, seat, sq)
	}

	switch {
	case sq == c.selected:
		c.clearLocked()
		return clickEffect{redraw: true}
	case c.isTargetLocked(sq):
		return c.proposeLocked(pos, sq)
	case ownPiece(pos, seat, sq):
		c.clearLocked()
		return c.selectLocked(pos, seat, sq)
	default:
		c.clearLocked()
		return clickEffect{notice: NoticeInvalidMove, redraw: true}
	}
}

func (c *Controller) selectLocked(pos *nchess.Position, seat nchess.Color, sq nchess.Square) clickEffect {
	if pos.Turn() != seat {
		return clickEffect{notice: NoticeNotYourTurn}
	}
	piece := pos.Board().Piece(sq)
	if piece == nchess.NoPiece {
		return clickEffect{}
	}
	if piece.Color() != seat {
		return clickEffect{notice: NoticeNotYourPiece}
	}
	c.selected = sq
	c.targets = destinations(c.match.Game, sq)
	return clickEffect{redraw: true}
}

func (c *Controller) proposeLocked(pos *nchess.Position, to nchess.Square) clickEffect {
	req := &gamedto.PlayerMoveRequest{
		Username: c.match.Session.Username,
		RoomID:   c.match.Session.RoomID,
		FEN:      pos.String(),
		MoveUCI:  EncodeMove(pos, c.selected, to),
	}
	c.clearLocked()
	return clickEffect{emit: req, redraw: true}
}

func (c *Controller) isTargetLocked(sq nchess.Square) bool {
	for _, t := range c.targets {
		if t == sq {
			return true
		}
	}
	return false
}

func ownPiece(pos *nchess.Position, seat nchess.Color, sq nchess.Square) bool {
	piece := pos.Board().Piece(sq)
	return piece != nchess.NoPiece && piece.Color() == seat
}

// destinations lists the legal target squares for the piece on from.
// Promotion variants collapse to a single destination.
func destinations(g *nchess.Game, from nchess.Square) []nchess.Square {
	var out []nchess.Square
	for _, mv := range g.ValidMoves() {
		if mv.S1() != from {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == mv.S2() {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, mv.S2())
		}
	}
	return out
}

// EncodeMove produces the wire move encoding: source square plus
// destination square, with a queen promotion letter appended when a pawn
// lands on the far rank. No promotion-choice UI exists; queen is fixed.
func EncodeMove(pos *nchess.Position, from, to nchess.Square) string {
	uci := from.String() + to.String()
	piece := pos.Board().Piece(from)
	if piece != nchess.NoPiece && piece.Type() == nchess.Pawn &&
		(to.Rank() == nchess.Rank8 || to.Rank() == nchess.Rank1) {
		uci += "q"
	}
	return uci
}
