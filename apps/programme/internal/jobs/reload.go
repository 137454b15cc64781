package jobs

import (
	"context"
	"log/slog"
	"time"

	"programme.xdoubleu.com/apps/programme/internal/services"
)

type ReloadJob struct {
	programme *services.ProgrammeService
	every     time.Duration
}

func NewReloadJob(
	programme *services.ProgrammeService,
	every time.Duration,
) ReloadJob {
	return ReloadJob{
		programme: programme,
		every:     every,
	}
}

func (j ReloadJob) ID() string {
	return "programme"
}

func (j ReloadJob) RunEvery() time.Duration {
	return j.every
}

func (j ReloadJob) Run(ctx context.Context, logger *slog.Logger) error {
	logger.Debug("reloading programme")
	return j.programme.Reload(ctx)
}
