package app

import (
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/config"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
	DB     *gorm.DB
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, db *gorm.DB) *App {
	return &App{Config: cfg, Logger: logger, Server: server, DB: db}
}
