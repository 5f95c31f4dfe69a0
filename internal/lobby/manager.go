package lobby

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/internal/msgcat"
	"github.com/raunak/chess-client/internal/obslog"
	"github.com/raunak/chess-client/internal/transport"
	"github.com/raunak/chess-client/internal/view"
	"github.com/raunak/chess-client/pkg/gamedto"
)

var (
	ErrUsernameRequired = errors.New("username required")
	ErrJoinInFlight     = errors.New("join already in progress")
)

// RoomLister is the HTTP side channel used only by quick match.
type RoomLister interface {
	ListOpenRooms(ctx context.Context) ([]gamedto.RoomInfo, error)
}

// Manager drives the connect → join → play → leave lifecycle.
type Manager struct {
	ch    transport.Channel
	rooms RoomLister
	match *game.Match
	view  view.View
	cat   *msgcat.Catalog

	defaultRoom string
	clearSel    func()

	inFlight atomic.Bool
}

func New(ch transport.Channel, rooms RoomLister, match *game.Match, v view.View, cat *msgcat.Catalog, defaultRoom string, clearSel func()) *Manager {
	if defaultRoom == "" {
		defaultRoom = "default"
	}
	if clearSel == nil {
		clearSel = func() {}
	}
	return &Manager{
		ch:          ch,
		rooms:       rooms,
		match:       match,
		view:        v,
		cat:         cat,
		defaultRoom: defaultRoom,
		clearSel:    clearSel,
	}
}

// Join binds the session identity, shows the loading view and requests
// room entry. The game view appears only once the server answers with a
// full snapshot.
func (m *Manager) Join(ctx context.Context, username, roomID string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		m.notice("lobby.username_required")
		return ErrUsernameRequired
	}
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		roomID = m.defaultRoom
	}

	if !m.inFlight.CompareAndSwap(false, true) {
		m.notice("lobby.join_in_flight")
		return ErrJoinInFlight
	}
	defer m.inFlight.Store(false)

	m.match.Mu.Lock()
	m.match.Session = game.Session{Username: username, RoomID: roomID}
	m.match.Mu.Unlock()

	loading, err := m.cat.Render("lobby.loading", map[string]string{"Room": roomID})
	if err != nil {
		loading = "Joining " + roomID + "..."
	}
	m.view.SwitchTo(view.ModeLoading, loading)

	obslog.L().Info("join_room", zap.String("room", roomID), zap.String("username", username))
	return m.ch.Emit(ctx, gamedto.EventJoinRoom, gamedto.JoinRoomRequest{Username: username, RoomID: roomID})
}

// QuickMatch queries the open rooms and joins one at random. A failed or
// empty listing degrades to a synthesized room id and never blocks.
func (m *Manager) QuickMatch(ctx context.Context, username string) error {
	if m.inFlight.Load() {
		m.notice("lobby.join_in_flight")
		return ErrJoinInFlight
	}

	var rooms []gamedto.RoomInfo
	if m.rooms != nil {
		listed, err := m.rooms.ListOpenRooms(ctx)
		if err != nil {
			obslog.L().Warn("room_listing_failed", zap.Error(err))
		} else {
			rooms = listed
		}
	}
	roomID := ChooseRoom(rooms)
	if roomID == "" {
		roomID = RandomRoomID()
	}
	return m.Join(ctx, username, roomID)
}

// Leave tears the channel down, reconnects it fresh and clears everything
// bound at join time.
func (m *Manager) Leave(ctx context.Context) error {
	if err := m.ch.Close(ctx); err != nil {
		obslog.L().Warn("channel_close", zap.Error(err))
	}

	m.match.Mu.Lock()
	m.match.ResetLocked()
	m.match.Mu.Unlock()
	m.clearSel()

	m.view.SwitchTo(view.ModeLobby, "")
	m.notice("lobby.left")
	return m.ch.Connect(ctx)
}

func (m *Manager) notice(key string) {
	out, err := m.cat.Render(key, nil)
	if err != nil {
		out = key
	}
	m.view.Notice(out)
}

// ChooseRoom picks a random entry from the listing, or "" when the
// listing is empty. Pure; the caller supplies the fallback.
func ChooseRoom(rooms []gamedto.RoomInfo) string {
	candidates := make([]string, 0, len(rooms))
	for _, r := range rooms {
		if id := strings.TrimSpace(r.RoomID); id != "" {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		return candidates[0]
	}
	return candidates[n.Int64()]
}

// RandomRoomID synthesizes a fresh room identifier.
func RandomRoomID() string {
	return "room-" + uuid.NewString()[:8]
}
