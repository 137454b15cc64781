package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"programme.xdoubleu.com/apps/programme/internal/layout"
	"programme.xdoubleu.com/apps/programme/internal/loader"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

// ProgrammeService holds the laid out programme. A failed reload keeps the
// last programme that loaded successfully.
type ProgrammeService struct {
	logger  *slog.Logger
	loader  *loader.Loader
	metrics *Metrics

	mu         sync.RWMutex
	programme  *models.Programme
	lastErr    error
	lastReload time.Time
}

func (service *ProgrammeService) Reload(ctx context.Context) error {
	sessions, err := service.loader.Load(ctx)
	service.metrics.ProgrammeReloads.WithLabelValues(result(err)).Inc()

	service.mu.Lock()
	defer service.mu.Unlock()

	service.lastReload = time.Now()

	if err != nil {
		service.lastErr = err
		service.logger.Error(
			"failed to load programme",
			slog.String("source", service.loader.Source()),
			logging.ErrAttr(err),
		)
		return err
	}

	programme := layout.BuildGrid(sessions)
	service.programme = &programme
	service.lastErr = nil

	service.logger.Debug(
		"loaded programme",
		slog.Int("days", len(programme.Days)),
		slog.Int("sessions", programme.SessionCount()),
	)

	return nil
}

// Current returns the programme, or the load error when no programme has
// loaded yet.
func (service *ProgrammeService) Current() (models.Programme, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	if service.programme == nil {
		if service.lastErr != nil {
			return models.Programme{}, service.lastErr
		}
		return models.Programme{}, loader.ErrNotLoaded
	}

	return *service.programme, nil
}

// LastError is the error of the most recent reload, nil when it succeeded.
func (service *ProgrammeService) LastError() error {
	service.mu.RLock()
	defer service.mu.RUnlock()

	return service.lastErr
}
