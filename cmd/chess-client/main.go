package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/raunak/chess-client/internal/board"
	appcfg "github.com/raunak/chess-client/internal/config"
	"github.com/raunak/chess-client/internal/controller"
	"github.com/raunak/chess-client/internal/game"
	"github.com/raunak/chess-client/internal/lobby"
	"github.com/raunak/chess-client/internal/msgcat"
	"github.com/raunak/chess-client/internal/obslog"
	"github.com/raunak/chess-client/internal/syncer"
	"github.com/raunak/chess-client/internal/transport"
	"github.com/raunak/chess-client/internal/view"
	"github.com/raunak/chess-client/pkg/gamedto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cat, err := msgcat.New(strings.TrimSpace(os.Getenv("MESSAGE_OVERRIDE_DIR")))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	v := view.NewConsole(os.Stdout, time.Duration(cfg.NoticeWindowSec)*time.Second)
	match := game.NewMatch()

	ws := transport.NewWebSocket(cfg.ServerWSURL, cfg.MaxReconnectAttempts, time.Second)
	httpc := transport.NewClient(cfg.ServerBaseURL)

	notify := func(key string) {
		text, rerr := cat.Render(key, nil)
		if rerr != nil {
			text = key
		}
		v.Notice(text)
	}
	emit := func(req gamedto.PlayerMoveRequest) {
		if werr := ws.Emit(context.Background(), gamedto.EventPlayerMove, req); werr != nil {
			obslog.L().Warn("emit_failed", zap.String("uci", req.MoveUCI), zap.Error(werr))
		}
	}

	var sy *syncer.Syncer
	ctrl := controller.New(match, cfg.BotUsername, emit, notify, func() {
		if sy != nil {
			sy.Redraw()
		}
	})
	sy = syncer.New(match, v, cat, ctrl, cfg.BotUsername)

	ws.OnMessage(sy.Handle)
	ws.OnStateChange(sy.HandleConnState)

	lob := lobby.New(ws, httpc, match, v, cat, cfg.DefaultRoom, ctrl.ClearSelection)

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()

	v.SwitchTo(view.ModeLobby, "")
	if cfg.AutoJoinUsername != "" {
		if err := lob.Join(context.Background(), cfg.AutoJoinUsername, cfg.AutoJoinRoom); err != nil {
			obslog.L().Warn("auto_join_failed", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go inputLoop(lob, ctrl, done)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-done:
	}

	_ = ws.Close(context.Background())
}

func inputLoop(lob *lobby.Manager, ctrl *controller.Controller, done chan<- struct{}) {
	defer close(done)
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		parts := strings.Fields(strings.TrimSpace(sc.Text()))
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "join":
			if len(args) < 1 {
				fmt.Println("usage: join <username> [room]")
				continue
			}
			room := ""
			if len(args) >= 2 {
				room = args[1]
			}
			_ = lob.Join(context.Background(), args[0], room)
		case "quick":
			if len(args) < 1 {
				fmt.Println("usage: quick <username>")
				continue
			}
			_ = lob.QuickMatch(context.Background(), args[0])
		case "leave":
			_ = lob.Leave(context.Background())
		case "click":
			if len(args) < 1 {
				fmt.Println("usage: click <square>")
				continue
			}
			clickSquare(ctrl, args[0])
		case "help":
			fmt.Println(helpText())
		default:
			// a bare square such as "e2" counts as a click on it
			if _, ok := board.ParseSquare(cmd); ok && len(args) == 0 {
				clickSquare(ctrl, cmd)
				continue
			}
			fmt.Println(helpText())
		}
	}
}

func clickSquare(ctrl *controller.Controller, coord string) {
	sq, ok := board.ParseSquare(coord)
	if !ok {
		fmt.Printf("bad square: %s\n", coord)
		return
	}
	ctrl.HandleClick(sq)
}

func helpText() string {
	return strings.Join([]string{
		"commands:",
		"  join <username> [room]   enter a room (default room when omitted)",
		"  quick <username>         join a random open room",
		"  click <square>           select / move (a bare square works too)",
		"  leave                    leave the match and return to the lobby",
		"  quit                     exit",
	}, "\n")
}
