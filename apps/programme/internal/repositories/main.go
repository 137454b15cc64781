package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
)

type Repositories struct {
	Highlights *HighlightRepository
}

func New(db postgres.DB, pool *pgxpool.Pool) *Repositories {
	highlights := &HighlightRepository{db: db, pool: pool}

	return &Repositories{
		Highlights: highlights,
	}
}
