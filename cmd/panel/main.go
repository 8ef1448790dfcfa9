package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smoralesdev/volley-panel/internal/api"
	"github.com/smoralesdev/volley-panel/internal/config"
	"github.com/smoralesdev/volley-panel/internal/control"
	"github.com/smoralesdev/volley-panel/internal/geo"
	"github.com/smoralesdev/volley-panel/internal/httpapi"
	"github.com/smoralesdev/volley-panel/internal/hub"
	"github.com/smoralesdev/volley-panel/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; env vars win

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open session store", zap.Error(err))
	}
	defer db.Close()

	client := api.NewClient(cfg.BackendURL, logger)
	if sess, ok, err := db.LoadSession(); err != nil {
		logger.Warn("restore session failed", zap.Error(err))
	} else if ok {
		client.SetToken(sess.Token)
		logger.Info("session restored", zap.String("user", sess.User.Username))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, client, control.DefaultRules(), logger)

	deps := &httpapi.Deps{
		API:   client,
		Geo:   geo.NewClient(logger),
		Store: db,
		Log:   logger,
	}
	handler := httpapi.SetupRoutes(deps, h)

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
