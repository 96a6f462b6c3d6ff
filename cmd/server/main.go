package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/config"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/router"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/security"
)

func main() {
	// A .env file is optional; environment beats file either way.
	godotenv.Load()

	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		slog.Warn("config file not loaded, using defaults", "error", err)
		cfg = config.Default()
	}

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, sessions will not survive restarts")
		cfg.SessionSecret = security.RandomSecret()
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("failed to initialize database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	sessions := security.NewCookieStore([]byte(cfg.SessionSecret))
	handler := router.Setup(database, sessions, cfg)

	slog.Info("listening", "port", cfg.Port, "driver", cfg.DBDriver)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
