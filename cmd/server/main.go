package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"crackit/internal/app"
	"crackit/internal/chat"
	"crackit/internal/config"
	"crackit/internal/server"
	"crackit/internal/util"
	"crackit/pkg/ai"
	"crackit/pkg/auth"
	"crackit/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	var hub *chat.Hub
	if cfg.RedisAddr != "" {
		hub, err = chat.NewHub(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to init chat hub: %v", err)
		}
	} else {
		slog.Warn("no redis addr configured, chat fan-out disabled")
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to init generator: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, 0)
	if err != nil {
		log.Fatalf("failed to init token issuer: %v", err)
	}

	appCore, err := app.New(app.Config{
		Store:     db,
		Generator: generator,
		Tokens:    tokens,
		Hub:       hub,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                     appCore,
		Pinger:                  db,
		RedisAddr:               cfg.RedisAddr,
		RedisPassword:           cfg.RedisPassword,
		AuthRateLimitPerMinute:  cfg.AuthRateLimitPerMinute,
		GenerateRateLimitPerMin: cfg.GenerateRateLimitPerMin,
		FollowXForwardedFor:     len(cfg.TrustedProxyCIDRs) > 0,
		TrustedProxies:          cfg.TrustedProxyCIDRs,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		// Roadmap generation waits on the model, so writes get more room
		// than a typical API response.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr, "provider", cfg.GenerationProvider)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch cfg.GenerationProvider {
	case "openai-compat":
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return ai.NewGeminiGenerator(client, cfg.GeminiModel), nil
	}
}
