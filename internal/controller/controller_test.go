package controller

import (
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/pkg/gamedto"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type harness struct {
	match   *game.Match
	ctrl    *Controller
	emits   []gamedto.PlayerMoveRequest
	notices []string
	redraws int
}

func newHarness(t *testing.T, fen string, players []string, username string) *harness {
	t.Helper()
	h := &harness{match: game.NewMatch()}
	h.match.Mu.Lock()
	if err := h.match.SetSnapshotLocked(fen, players, game.StatusOngoing); err != nil {
		h.match.Mu.Unlock()
		t.Fatalf("snapshot: %v", err)
	}
	h.match.Session = game.Session{Username: username, RoomID: "r1"}
	h.match.Mu.Unlock()

	h.ctrl = New(h.match, "raunak",
		func(req gamedto.PlayerMoveRequest) { h.emits = append(h.emits, req) },
		func(key string) { h.notices = append(h.notices, key) },
		func() { h.redraws++ },
	)
	return h
}

func (h *harness) click(t *testing.T, coord string) {
	t.Helper()
	sq, ok := parseCoord(coord)
	if !ok {
		t.Fatalf("bad coord %q", coord)
	}
	h.ctrl.HandleClick(sq)
}

func parseCoord(s string) (nchess.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nchess.NoSquare, false
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), true
}

func TestClickEmptySquareStaysIdle(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "e4")
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected no selection after clicking an empty square")
	}
	if len(h.emits) != 0 {
		t.Fatalf("expected no proposal, got %d", len(h.emits))
	}
}

func TestSelectThenDeselect(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "e2")
	sq, targets, ok := h.ctrl.Selection()
	if !ok || sq.String() != "e2" {
		t.Fatalf("expected e2 selected, got ok=%v sq=%v", ok, sq)
	}
	if len(targets) != 2 {
		t.Fatalf("expected e3 and e4 as targets, got %v", targets)
	}
	h.click(t, "e2")
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected deselect on second click")
	}
	if len(h.emits) != 0 {
		t.Fatalf("deselect must not emit, got %d proposals", len(h.emits))
	}
}

func TestMoveEmitsProposalWithoutMutatingPosition(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.match.Mu.Lock()
	before := h.match.Game
	h.match.Mu.Unlock()

	h.click(t, "e2")
	h.click(t, "e4")

	if len(h.emits) != 1 {
		t.Fatalf("expected one proposal, got %d", len(h.emits))
	}
	req := h.emits[0]
	if req.MoveUCI != "e2e4" || req.Username != "alice" || req.RoomID != "r1" {
		t.Fatalf("unexpected proposal: %+v", req)
	}
	if req.FEN != startFEN {
		t.Fatalf("proposal should carry the pre-move fen, got %q", req.FEN)
	}
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected Idle after proposal")
	}

	h.match.Mu.Lock()
	defer h.match.Mu.Unlock()
	if h.match.Game != before {
		t.Fatalf("controller must not replace the position reference")
	}
	if got := h.match.FENLocked(); got != startFEN {
		t.Fatalf("position changed locally: %q", got)
	}
}

func TestClickSequenceNeverMutatesPosition(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.match.Mu.Lock()
	before := h.match.Game
	h.match.Mu.Unlock()

	for _, coord := range []string{"e2", "e4", "g1", "f3", "b1", "b1", "d2", "h8", "a2"} {
		h.click(t, coord)
	}

	h.match.Mu.Lock()
	defer h.match.Mu.Unlock()
	if h.match.Game != before || h.match.FENLocked() != startFEN {
		t.Fatalf("clicks mutated the position")
	}
}

func TestNotYourTurnNotice(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "bob")
	h.click(t, "e2") // white pawn, white to move, bob plays black
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected no selection for the side not to move")
	}
	if len(h.notices) != 1 || h.notices[0] != NoticeNotYourTurn {
		t.Fatalf("expected %q, got %v", NoticeNotYourTurn, h.notices)
	}
}

func TestOpponentPieceNotice(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "d7")
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected no selection of an opponent piece")
	}
	if len(h.notices) != 1 || h.notices[0] != NoticeNotYourPiece {
		t.Fatalf("expected %q, got %v", NoticeNotYourPiece, h.notices)
	}
}

func TestSpectatorRejected(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "carol")
	h.click(t, "e2")
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("spectators must not select")
	}
	if len(h.notices) != 1 || h.notices[0] != NoticeSpectator {
		t.Fatalf("expected %q, got %v", NoticeSpectator, h.notices)
	}
	if len(h.emits) != 0 {
		t.Fatalf("spectators must not emit")
	}
}

func TestReservedIdentityShortCircuits(t *testing.T) {
	h := newHarness(t, startFEN, []string{"raunak", "bob"}, "raunak")
	for _, coord := range []string{"e2", "a1", "h8"} {
		h.click(t, coord)
	}
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("reserved identity must never hold a selection")
	}
	for _, n := range h.notices {
		if n != NoticeAIAuto {
			t.Fatalf("expected only %q notices, got %v", NoticeAIAuto, h.notices)
		}
	}
	if len(h.notices) != 3 || len(h.emits) != 0 {
		t.Fatalf("expected 3 notices and no proposals, got %d/%d", len(h.notices), len(h.emits))
	}
}

func TestReselectOwnPiece(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "e2")
	h.click(t, "g1") // knight, not a pawn target
	sq, _, ok := h.ctrl.Selection()
	if !ok || sq.String() != "g1" {
		t.Fatalf("expected reselect to g1, got ok=%v sq=%v", ok, sq)
	}
	if len(h.emits) != 0 {
		t.Fatalf("reselect must not emit")
	}
}

func TestInvalidDestinationDeselects(t *testing.T) {
	h := newHarness(t, startFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "e2")
	h.click(t, "d5")
	if _, _, ok := h.ctrl.Selection(); ok {
		t.Fatalf("expected deselect on invalid destination")
	}
	if len(h.notices) != 1 || h.notices[0] != NoticeInvalidMove {
		t.Fatalf("expected %q, got %v", NoticeInvalidMove, h.notices)
	}
}

func TestPromotionAppendsQueenExactlyOnce(t *testing.T) {
	const promoFEN = "7k/4P3/8/8/8/8/8/4K3 w - - 0 1"
	h := newHarness(t, promoFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "e7")
	h.click(t, "e8")
	if len(h.emits) != 1 {
		t.Fatalf("expected one proposal, got %d", len(h.emits))
	}
	if got := h.emits[0].MoveUCI; got != "e7e8q" {
		t.Fatalf("expected e7e8q, got %q", got)
	}
}

func TestNonPawnBackRankMoveHasNoPromotion(t *testing.T) {
	const rookFEN = "7k/8/8/8/8/8/8/R3K3 w - - 0 1"
	h := newHarness(t, rookFEN, []string{"alice", "bob"}, "alice")
	h.click(t, "a1")
	h.click(t, "a8")
	if len(h.emits) != 1 {
		t.Fatalf("expected one proposal, got %d", len(h.emits))
	}
	if got := h.emits[0].MoveUCI; got != "a1a8" {
		t.Fatalf("expected a1a8, got %q", got)
	}
}
