package lobby

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raunak/chess-client/internal/board"
	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/internal/msgcat"
	"github.com/raunak/chess-client/internal/transport"
	"github.com/raunak/chess-client/internal/view"
	"github.com/raunak/chess-client/pkg/gamedto"
)

type emitted struct {
	event   string
	payload any
}

type fakeChannel struct {
	emits    []emitted
	connects int
	closes   int
	emitErr  error
}

func (f *fakeChannel) Connect(context.Context) error { f.connects++; return nil }
func (f *fakeChannel) Emit(_ context.Context, event string, payload any) error {
	f.emits = append(f.emits, emitted{event: event, payload: payload})
	return f.emitErr
}
func (f *fakeChannel) OnMessage(transport.EnvelopeCallback) int  { return 0 }
func (f *fakeChannel) RemoveMessageCallback(int)                 {}
func (f *fakeChannel) OnStateChange(transport.StateCallback) int { return 0 }
func (f *fakeChannel) RemoveStateCallback(int)                   {}
func (f *fakeChannel) Close(context.Context) error               { f.closes++; return nil }

type fakeLister struct {
	rooms []gamedto.RoomInfo
	err   error
}

func (f *fakeLister) ListOpenRooms(context.Context) ([]gamedto.RoomInfo, error) {
	return f.rooms, f.err
}

type recordingView struct {
	modes   []view.Mode
	notices []string
}

func (r *recordingView) SwitchTo(mode view.Mode, _ string) { r.modes = append(r.modes, mode) }
func (r *recordingView) ShowBoard(board.Grid)              {}
func (r *recordingView) SetStatus(string)                  {}
func (r *recordingView) SetConnState(string)               {}
func (r *recordingView) Notice(text string)                { r.notices = append(r.notices, text) }

func newTestManager(t *testing.T, ch *fakeChannel, lister RoomLister) (*Manager, *game.Match, *recordingView) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	match := game.NewMatch()
	v := &recordingView{}
	return New(ch, lister, match, v, cat, "default", nil), match, v
}

func TestJoinRequiresUsername(t *testing.T) {
	ch := &fakeChannel{}
	m, match, v := newTestManager(t, ch, nil)

	if err := m.Join(context.Background(), "   ", "r1"); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("err = %v", err)
	}
	if len(ch.emits) != 0 {
		t.Fatalf("nothing may be emitted without a username")
	}
	if len(v.notices) != 1 {
		t.Fatalf("expected a validation notice, got %v", v.notices)
	}
	match.Mu.Lock()
	defer match.Mu.Unlock()
	if !match.Session.Empty() {
		t.Fatalf("session must stay unbound: %+v", match.Session)
	}
}

func TestJoinDefaultsRoomAndEmits(t *testing.T) {
	ch := &fakeChannel{}
	m, match, v := newTestManager(t, ch, nil)

	if err := m.Join(context.Background(), "alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(ch.emits) != 1 || ch.emits[0].event != gamedto.EventJoinRoom {
		t.Fatalf("emits = %+v", ch.emits)
	}
	req, ok := ch.emits[0].payload.(gamedto.JoinRoomRequest)
	if !ok {
		t.Fatalf("payload type %T", ch.emits[0].payload)
	}
	if req.Username != "alice" || req.RoomID != "default" {
		t.Fatalf("request = %+v", req)
	}
	if len(v.modes) != 1 || v.modes[0] != view.ModeLoading {
		t.Fatalf("expected loading view, got %v", v.modes)
	}
	match.Mu.Lock()
	defer match.Mu.Unlock()
	if match.Session.Username != "alice" || match.Session.RoomID != "default" {
		t.Fatalf("session = %+v", match.Session)
	}
}

func TestJoinGuardsConcurrentAttempts(t *testing.T) {
	ch := &fakeChannel{}
	m, _, v := newTestManager(t, ch, nil)

	m.inFlight.Store(true)
	if err := m.Join(context.Background(), "alice", "r1"); !errors.Is(err, ErrJoinInFlight) {
		t.Fatalf("err = %v", err)
	}
	if len(ch.emits) != 0 {
		t.Fatalf("guarded join must not emit")
	}
	if len(v.notices) != 1 {
		t.Fatalf("expected an in-flight notice, got %v", v.notices)
	}
}

func TestQuickMatchPicksListedRoom(t *testing.T) {
	ch := &fakeChannel{}
	lister := &fakeLister{rooms: []gamedto.RoomInfo{{RoomID: "open-1"}}}
	m, _, _ := newTestManager(t, ch, lister)

	if err := m.QuickMatch(context.Background(), "alice"); err != nil {
		t.Fatalf("quick match: %v", err)
	}
	req := ch.emits[0].payload.(gamedto.JoinRoomRequest)
	if req.RoomID != "open-1" {
		t.Fatalf("room = %q", req.RoomID)
	}
}

func TestQuickMatchFallsBackOnListingError(t *testing.T) {
	ch := &fakeChannel{}
	lister := &fakeLister{err: errors.New("boom")}
	m, _, _ := newTestManager(t, ch, lister)

	if err := m.QuickMatch(context.Background(), "alice"); err != nil {
		t.Fatalf("quick match must degrade, got %v", err)
	}
	if len(ch.emits) != 1 {
		t.Fatalf("emits = %+v", ch.emits)
	}
	req := ch.emits[0].payload.(gamedto.JoinRoomRequest)
	if !strings.HasPrefix(req.RoomID, "room-") {
		t.Fatalf("fallback room = %q", req.RoomID)
	}
}

func TestQuickMatchFallsBackOnEmptyListing(t *testing.T) {
	ch := &fakeChannel{}
	m, _, _ := newTestManager(t, ch, &fakeLister{})

	if err := m.QuickMatch(context.Background(), "alice"); err != nil {
		t.Fatalf("quick match: %v", err)
	}
	req := ch.emits[0].payload.(gamedto.JoinRoomRequest)
	if !strings.HasPrefix(req.RoomID, "room-") {
		t.Fatalf("fallback room = %q", req.RoomID)
	}
}

func TestLeaveResetsEverything(t *testing.T) {
	ch := &fakeChannel{}
	cleared := 0
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	match := game.NewMatch()
	v := &recordingView{}
	m := New(ch, nil, match, v, cat, "default", func() { cleared++ })

	if err := m.Join(context.Background(), "alice", "r1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Leave(context.Background()); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if ch.closes != 1 || ch.connects != 1 {
		t.Fatalf("closes=%d connects=%d", ch.closes, ch.connects)
	}
	if cleared != 1 {
		t.Fatalf("leave must clear the selection, cleared=%d", cleared)
	}
	if v.modes[len(v.modes)-1] != view.ModeLobby {
		t.Fatalf("expected lobby view, got %v", v.modes)
	}
	match.Mu.Lock()
	defer match.Mu.Unlock()
	if !match.Session.Empty() || match.Game != nil || len(match.Seats) != 0 {
		t.Fatalf("state must be reset: %+v", match)
	}
}

func TestChooseRoom(t *testing.T) {
	if got := ChooseRoom(nil); got != "" {
		t.Fatalf("empty listing must yield no room, got %q", got)
	}
	if got := ChooseRoom([]gamedto.RoomInfo{{RoomID: "  "}}); got != "" {
		t.Fatalf("blank ids are skipped, got %q", got)
	}
	got := ChooseRoom([]gamedto.RoomInfo{{RoomID: "a"}, {RoomID: "b"}})
	if got != "a" && got != "b" {
		t.Fatalf("unexpected pick %q", got)
	}
}

func TestRandomRoomIDShape(t *testing.T) {
	id := RandomRoomID()
	if !strings.HasPrefix(id, "room-") || len(id) != len("room-")+8 {
		t.Fatalf("id = %q", id)
	}
	if id == RandomRoomID() {
		t.Fatalf("ids must not repeat")
	}
}
