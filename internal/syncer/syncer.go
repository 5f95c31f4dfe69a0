package syncer

import (
	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/raunak/chess-client/internal/board"
	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/internal/msgcat"
	"github.com/raunak/chess-client/internal/obslog"
	"github.com/raunak/chess-client/internal/transport"
	"github.com/raunak/chess-client/internal/view"
	"github.com/raunak/chess-client/pkg/gamedto"
)

// SelectionSource is the controller-side selection state the renderer
// projection needs, plus the reset hook used when the position changes.
type SelectionSource interface {
	Selection() (nchess.Square, []nchess.Square, bool)
	ClearSelection()
}

// Syncer reconciles local state with server-pushed events. It is the only
// writer of the Match position; the controller only ever reads it.
type Syncer struct {
	match *game.Match
	view  view.View
	cat   *msgcat.Catalog
	sel   SelectionSource
	bot   string
}

func New(match *game.Match, v view.View, cat *msgcat.Catalog, sel SelectionSource, botName string) *Syncer {
	return &Syncer{match: match, view: v, cat: cat, sel: sel, bot: botName}
}

// Handle dispatches one inbound frame. The event set is closed; anything
// unknown is logged and dropped.
func (s *Syncer) Handle(env *gamedto.Envelope) {
	if env == nil {
		return
	}
	switch env.Event {
	case gamedto.EventGameState:
		s.onGameState(env)
	case gamedto.EventMoveUpdate:
		s.onMoveUpdate(env)
	case gamedto.EventPlayerJoined:
		s.onPlayerJoined(env)
	case gamedto.EventOpponentDisconnected:
		s.view.Notice(s.render("lobby.peer_left", nil))
	case gamedto.EventError:
		s.onServerError(env)
	default:
		obslog.L().Warn("unknown_event", zap.String("event", env.Event))
	}
}

// HandleConnState is wired to the transport's state callbacks. Connection
// churn updates the status line only; session and position are untouched
// because a fresh snapshot follows any successful reconnect.
func (s *Syncer) HandleConnState(state transport.WebSocketState) {
	s.view.SetConnState(state.String())
}

func (s *Syncer) onGameState(env *gamedto.Envelope) {
	var snap gamedto.GameState
	if err := env.Decode(&snap); err != nil {
		obslog.L().Warn("bad_payload", zap.String("event", env.Event), zap.Error(err))
		return
	}
	s.match.Mu.Lock()
	err := s.match.SetSnapshotLocked(snap.FEN, snap.Players, snap.Status)
	s.match.Mu.Unlock()
	if err != nil {
		obslog.L().Error("snapshot_rejected", zap.String("fen", snap.FEN), zap.Error(err))
		return
	}
	s.sel.ClearSelection()
	s.view.SwitchTo(view.ModeGame, "")
	s.updateStatus(game.ParseTurn(snap.Turn))
	s.Redraw()
}

func (s *Syncer) onMoveUpdate(env *gamedto.Envelope) {
	var upd gamedto.MoveUpdate
	if err := env.Decode(&upd); err != nil {
		obslog.L().Warn("bad_payload", zap.String("event", env.Event), zap.Error(err))
		return
	}
	s.match.Mu.Lock()
	err := s.match.ReplacePositionLocked(upd.FEN)
	s.match.Mu.Unlock()
	if err != nil {
		obslog.L().Error("snapshot_rejected", zap.String("fen", upd.FEN), zap.Error(err))
		return
	}
	s.sel.ClearSelection()
	s.Redraw()
}

func (s *Syncer) onPlayerJoined(env *gamedto.Envelope) {
	var joined gamedto.PlayerJoined
	if err := env.Decode(&joined); err != nil {
		obslog.L().Warn("bad_payload", zap.String("event", env.Event), zap.Error(err))
		return
	}
	s.match.Mu.Lock()
	s.match.Seats = append(game.Seats(nil), joined.Players...)
	turn := nchess.White
	if s.match.Game != nil {
		turn = s.match.Game.Position().Turn()
	}
	s.match.Mu.Unlock()
	s.updateStatus(turn)
}

func (s *Syncer) onServerError(env *gamedto.Envelope) {
	var serr gamedto.ServerError
	if err := env.Decode(&serr); err != nil {
		obslog.L().Warn("bad_payload", zap.String("event", env.Event), zap.Error(err))
		return
	}
	obslog.L().Warn("server_error", zap.String("message", serr.Message))
	s.view.Notice(s.render("lobby.server_error", map[string]string{"Message": serr.Message}))
	s.view.SwitchTo(view.ModeLobby, "")
}

func (s *Syncer) updateStatus(turn nchess.Color) {
	s.match.Mu.Lock()
	status := s.match.Status
	seats := s.match.Seats
	viewer := s.match.Session.Username
	s.match.Mu.Unlock()

	kind, detail := game.DeriveStatus(status, seats, turn, viewer, s.bot)
	switch kind {
	case game.StatusKindGameOver:
		s.view.SetStatus(s.render("status.game_over", map[string]string{"Status": detail}))
	case game.StatusKindWaiting:
		s.view.SetStatus(s.render("status.waiting", nil))
	case game.StatusKindAIThinking:
		s.view.SetStatus(s.render("status.ai_thinking", nil))
	default:
		s.view.SetStatus(s.render("status.in_progress", nil))
	}
}

// Redraw rebuilds the grid from the live position and pushes it to the
// render target. The grid is never patched in place.
func (s *Syncer) Redraw() {
	s.match.Mu.Lock()
	if s.match.Game == nil {
		s.match.Mu.Unlock()
		return
	}
	b := s.match.Game.Position().Board()
	flipped := s.match.Seats.Flipped(s.match.Session.Username)
	s.match.Mu.Unlock()

	opts := board.Options{Flipped: flipped, Selected: nchess.NoSquare}
	if sq, targets, ok := s.sel.Selection(); ok {
		opts.Selected = sq
		opts.Targets = targets
	}
	s.view.ShowBoard(board.Render(b, opts))
}

func (s *Syncer) render(key string, data any) string {
	out, err := s.cat.Render(key, data)
	if err != nil {
		obslog.L().Warn("msgcat_render", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}
