package services

import (
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"programme.xdoubleu.com/apps/programme/internal/loader"
	"programme.xdoubleu.com/internal/auth"
	"programme.xdoubleu.com/internal/config"
)

type Services struct {
	Auth       auth.Service
	Highlights HighlightStore
	Programme  *ProgrammeService
	WebSocket  *WebSocketService
	Metrics    *Metrics
	logger     *slog.Logger
}

func New(
	logger *slog.Logger,
	config config.Config,
	jobQueue *threading.JobQueue,
	highlights HighlightStore,
	authService auth.Service,
) *Services {
	metrics := NewMetrics()

	//nolint:exhaustruct //other fields are optional
	programme := &ProgrammeService{
		logger:  logger,
		loader:  loader.New(config.ProgrammeSource),
		metrics: metrics,
	}

	return &Services{
		Auth:       authService,
		Highlights: highlights,
		Programme:  programme,
		WebSocket: NewWebSocketService(
			logger,
			[]string{config.WebURL},
			jobQueue,
			programme,
		),
		Metrics: metrics,
		logger:  logger,
	}
}

// NewSession starts tracking the highlights of one open programme page.
func (services *Services) NewSession(reconciler Reconciler) *Session {
	return NewSession(services.logger, services.Highlights, reconciler, services.Metrics)
}
