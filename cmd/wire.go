package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	apiclient "github.com/klyve/vodctl/internal/adapters/api"
	"github.com/klyve/vodctl/internal/adapters/credstore"
	tomlrepo "github.com/klyve/vodctl/internal/adapters/repo/toml"
	"github.com/klyve/vodctl/internal/adapters/session"
	socketclient "github.com/klyve/vodctl/internal/adapters/socket"
	"github.com/klyve/vodctl/internal/application"
)

type appConfig struct {
	apiURL         string
	socketURL      string
	googleClientID string
	googleListen   string
	googleTimeout  time.Duration
}

type app struct {
	cfg      appConfig
	log      zerolog.Logger
	api      *apiclient.Client
	jar      *session.Jar
	sessions *application.SessionService
	sockets  *socketclient.Client
}

func wireApp(log zerolog.Logger) (*app, error) {
	cfg := appConfig{
		apiURL:         envOrDefault("VODCTL_API_URL", "http://localhost:3000"),
		socketURL:      os.Getenv("VODCTL_SOCKET_URL"),
		googleClientID: os.Getenv("VODCTL_GOOGLE_CLIENT_ID"),
		googleListen:   envOrDefault("VODCTL_GOOGLE_LISTEN", "127.0.0.1:0"),
		googleTimeout:  5 * time.Minute,
	}
	if cfg.socketURL == "" {
		cfg.socketURL = strings.TrimSuffix(cfg.apiURL, "/") + "/admin-dashboard"
	}

	apiURL, err := url.Parse(cfg.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	profiles, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	store, err := credstore.NewDefault("vodctl", filepath.Join(homeDir, ".vodctl", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	jar, err := session.New(store, apiURL, log)
	if err != nil {
		return nil, fmt.Errorf("wire session jar: %w", err)
	}

	// The client's expiry hook points at the session service, which in turn
	// wraps the client; the indirection breaks the construction cycle.
	var sessions *application.SessionService
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.apiURL,
		Jar:     jar,
		Logger:  log,
		OnSessionExpired: func() {
			if sessions != nil {
				sessions.HandleExpired()
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}
	sessions = application.NewSessionService(client, jar, profiles, log)

	return &app{
		cfg:      cfg,
		log:      log,
		api:      client,
		jar:      jar,
		sessions: sessions,
		sockets:  socketclient.NewClient(log),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
