package main

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"programme.xdoubleu.com/apps/programme"
	"programme.xdoubleu.com/internal/auth"
	"programme.xdoubleu.com/internal/config"
)

type Apps struct {
	apps []App
}

type App interface {
	Routes(prefix string, mux *http.ServeMux)
	ApplyMigrations(db *pgxpool.Pool) error
	GetName() string
}

func NewApps(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db *pgxpool.Pool,
) *Apps {
	return NewAppsWith(programme.New(authService, logger, cfg, db))
}

func NewAppsWith(apps ...App) *Apps {
	result := &Apps{
		apps: []App{},
	}

	for _, app := range apps {
		result.addApp(app)
	}

	return result
}

func (apps *Apps) ApplyMigrations(db *pgxpool.Pool) error {
	for _, app := range apps.apps {
		err := app.ApplyMigrations(db)
		if err != nil {
			return err
		}
	}
	return nil
}

func (apps *Apps) Routes(mux *http.ServeMux) {
	for _, app := range apps.apps {
		app.Routes(app.GetName(), mux)
	}
}

func (apps *Apps) addApp(app App) {
	apps.apps = append(apps.apps, app)
}
