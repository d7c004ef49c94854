package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"furniture-admin/internal/chatbot"
	"furniture-admin/internal/config"
	"furniture-admin/internal/database"
	"furniture-admin/internal/obs"
	"furniture-admin/internal/purchase"
	"furniture-admin/internal/security"
	"furniture-admin/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	obs.Init(cfg.LogLevel)
	obs.Logger.Info("service_starting", "database_driver", cfg.DatabaseDriver, "ai_provider", cfg.AIProvider)
	for _, w := range cfg.Warnings() {
		obs.Logger.Warn("config_warning", "message", w)
	}

	db, err := database.Open(cfg)
	if err != nil {
		obs.Logger.Error("database_open_failed", "error", err)
		os.Exit(1)
	}

	if cfg.SeedOnStart {
		if _, err := database.Seed(context.Background(), db); err != nil {
			obs.Logger.Error("database_seed_failed", "error", err)
			os.Exit(1)
		}
	}

	signer, generated, err := security.LoadOrGenerate(cfg.RSAPrivateKeyPath, cfg.RSAKeyBits)
	if err != nil {
		obs.Logger.Error("rsa_key_failed", "error", err)
		os.Exit(1)
	}
	if generated {
		obs.Logger.Info("rsa_key_generated", "path", cfg.RSAPrivateKeyPath, "bits", cfg.RSAKeyBits)
	}

	purchases := purchase.NewService(db, cfg.PurchaseTimeout)
	chat, err := chatbot.NewFromConfig(cfg, purchases.Inventory())
	if err != nil {
		obs.Logger.Error("chatbot_config_invalid", "error", err)
		os.Exit(1)
	}

	app := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Purchases: purchases,
		Chat:      chat,
		Signer:    signer,
	})

	go func() {
		obs.Logger.Info("http_listen", "port", cfg.HTTPPort)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			obs.Logger.Error("database_close_error", "error", err)
		}
	}
	obs.Logger.Info("service_stopped")
}
