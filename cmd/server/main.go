package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/api"
	"github.com/tendant/simple-media/pkg/simplemedia/config"
	"github.com/tendant/simple-media/pkg/simplemedia/configsync"
)

type Config struct {
	ApiKeySHA256     string `env:"API_KEY_SHA256" env-default:"1"`
	JWTSecret        string `env:"JWT_SECRET" env-default:""`
	ImportConfigSync bool   `env:"CONFIG_SYNC_IMPORT" env-default:"false"`
	LogLevel         string `env:"LOG_LEVEL" env-default:"info"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL); err != nil {
			slog.Error("Postgres is not reachable", "err", err)
			os.Exit(1)
		}
	}

	svc, err := serverConfig.BuildService(simplemedia.WithLogger(slog.Default()))
	if err != nil {
		slog.Error("Failed to build media service", "err", err)
		os.Exit(1)
	}

	if cfg.ImportConfigSync {
		store, err := serverConfig.BuildConfigStore()
		if err != nil {
			slog.Error("Failed to build config sync store", "err", err)
			os.Exit(1)
		}
		if store == nil {
			slog.Error("CONFIG_SYNC_IMPORT requires CONFIG_SYNC_URL")
			os.Exit(1)
		}
		if _, err := configsync.Import(context.Background(), svc, store); err != nil {
			slog.Error("Failed to import configuration", "err", err)
			os.Exit(1)
		}
	}

	var tokenAuth *jwtauth.JWTAuth
	if cfg.JWTSecret != "" {
		tokenAuth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	} else {
		slog.Warn("JWT_SECRET not set, all requests are served as the anonymous actor")
	}

	apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
		APIKeys: map[string]string{
			"key1": cfg.ApiKeySHA256,
		},
	})
	if err != nil {
		slog.Error("Failed initialize API Key middleware", "err", err)
		os.Exit(1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	mediaHandler := api.NewHandler(svc, tokenAuth)
	server.R.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		r.Mount("/", mediaHandler.Routes())
	})

	slog.Info("Media server configured", "database", serverConfig.DatabaseType, "environment", serverConfig.Environment)
	server.Run()
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
