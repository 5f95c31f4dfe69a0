package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ServerBaseURL string
	ServerWSURL   string

	DefaultRoom string
	BotUsername string

	NoticeWindowSec      int
	MaxReconnectAttempts int

	// Optional auto-join identity for headless runs; when Username is
	// set the client joins immediately instead of waiting at the lobby.
	AutoJoinUsername string
	AutoJoinRoom     string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DefaultRoom:          "default",
		BotUsername:          "raunak",
		NoticeWindowSec:      4,
		MaxReconnectAttempts: 5,
	}

	cfg.ServerBaseURL = strings.TrimSpace(os.Getenv("SERVER_BASE_URL"))
	cfg.ServerWSURL = strings.TrimSpace(os.Getenv("SERVER_WS_URL"))

	if v := strings.TrimSpace(os.Getenv("DEFAULT_ROOM")); v != "" {
		cfg.DefaultRoom = v
	}
	if v := strings.TrimSpace(os.Getenv("BOT_USERNAME")); v != "" {
		cfg.BotUsername = v
	}
	if v := strings.TrimSpace(os.Getenv("NOTICE_WINDOW")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NoticeWindowSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_RECONNECT_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxReconnectAttempts = n
		}
	}

	cfg.AutoJoinUsername = strings.TrimSpace(os.Getenv("AUTO_JOIN_USERNAME"))
	cfg.AutoJoinRoom = strings.TrimSpace(os.Getenv("AUTO_JOIN_ROOM"))

	if cfg.ServerBaseURL == "" {
		return nil, errors.New("SERVER_BASE_URL is required")
	}
	if cfg.ServerWSURL == "" {
		return nil, errors.New("SERVER_WS_URL is required")
	}

	return cfg, nil
}
