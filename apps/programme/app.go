//nolint:revive //it is what it is
package programme

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"time"
	// needed for embedding timezone data.
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"github.com/xhit/go-str2duration/v2"
	"programme.xdoubleu.com/apps/programme/internal/jobs"
	"programme.xdoubleu.com/apps/programme/internal/repositories"
	"programme.xdoubleu.com/apps/programme/internal/services"
	"programme.xdoubleu.com/internal/auth"
	"programme.xdoubleu.com/internal/config"
	"programme.xdoubleu.com/internal/constants"
)

const defaultRefresh = time.Hour

//go:embed migrations/*.sql
var embedMigrations embed.FS

//go:embed templates/html/**/*html
var htmlTemplates embed.FS

//go:embed static/*
var staticFiles embed.FS

type Programme struct {
	logger    *slog.Logger
	ctx       context.Context
	ctxCancel context.CancelFunc
	Config    config.Config
	Services  *services.Services
	tpl       *template.Template
	jobQueue  *threading.JobQueue
}

func New(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db *pgxpool.Pool,
) *Programme {
	spandb := postgres.NewSpanDB(db)
	repos := repositories.New(spandb, db)

	store := services.NewDocumentStore(
		logger,
		constants.AppNamespace,
		repos.Highlights,
	)

	app := NewInner(authService, logger, cfg, store)

	go store.Listen(app.ctx)

	return app
}

func NewInner(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	highlights services.HighlightStore,
) *Programme {
	tpl := template.Must(template.ParseFS(htmlTemplates, "templates/html/**/*.html"))

	//nolint:mnd //no magic number
	jobQueue := threading.NewJobQueue(logger, 1, 10)

	//nolint:exhaustruct //other fields are optional
	app := &Programme{
		logger:   logger,
		Config:   cfg,
		tpl:      tpl,
		jobQueue: jobQueue,
	}

	app.setContext()

	app.Services = services.New(
		logger,
		cfg,
		jobQueue,
		highlights,
		authService,
	)

	// a failed first load is shown on the page and retried by the job
	_ = app.Services.Programme.Reload(app.ctx)

	app.setJobs()

	return app
}

func (app *Programme) setJobs() {
	every, err := str2duration.ParseDuration(app.Config.ProgrammeRefresh)
	if err != nil {
		app.logger.Error(
			"invalid programme refresh period, using default",
			logging.ErrAttr(err),
		)
		every = defaultRefresh
	}

	err = app.jobQueue.AddJob(
		jobs.NewReloadJob(app.Services.Programme, every),
		app.Services.WebSocket.UpdateState,
	)
	if err != nil {
		panic(err)
	}

	app.Services.WebSocket.RegisterTopics(app.jobQueue.FetchJobIDs())
}

func (app *Programme) setContext() {
	ctx, cancel := context.WithCancel(context.Background())
	app.ctx = ctx
	app.ctxCancel = cancel
}

// Close stops the background work of the app.
func (app *Programme) Close() {
	app.ctxCancel()
	app.jobQueue.Clear()
}

func (app *Programme) ApplyMigrations(db *pgxpool.Pool) error {
	migrationsDB := stdlib.OpenDBFromPool(db)

	goose.SetLogger(slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo))

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}

	if err := goose.Up(migrationsDB, "migrations"); err != nil {
		return err
	}

	return nil
}

func (app *Programme) GetName() string {
	return "programme"
}
