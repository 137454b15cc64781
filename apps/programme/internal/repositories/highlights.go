package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

// HighlightChannel is the notification channel carrying the path of every
// overwritten highlight document.
const HighlightChannel = "programme_highlights"

type HighlightRepository struct {
	db   postgres.DB
	pool *pgxpool.Pool
}

func (repo *HighlightRepository) Get(
	ctx context.Context,
	docPath string,
) (models.HighlightDocument, error) {
	query := `
		SELECT session_ids, updated_at
		FROM programme.highlights
		WHERE doc_path = $1
	`

	//nolint:exhaustruct //fields are scanned
	doc := models.HighlightDocument{}

	err := repo.db.QueryRow(ctx, query, docPath).Scan(
		&doc.SessionIDs,
		&doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.HighlightDocument{
			SessionIDs: []string{},
			UpdatedAt:  time.Time{},
		}, nil
	}
	if err != nil {
		return models.HighlightDocument{}, postgres.PgxErrorToHTTPError(err)
	}

	return doc, nil
}

// Overwrite replaces the whole document and notifies listeners in the same
// statement.
func (repo *HighlightRepository) Overwrite(
	ctx context.Context,
	docPath string,
	namespace string,
	userID string,
	sessionIDs []string,
) (*models.HighlightDocument, error) {
	query := `
		WITH upsert AS (
			INSERT INTO programme.highlights
				(doc_path, namespace, user_id, session_ids, updated_at)
			VALUES ($1, $2, $3, $4, clock_timestamp())
			ON CONFLICT (doc_path)
			DO UPDATE SET session_ids = $4, updated_at = clock_timestamp()
			RETURNING doc_path, session_ids, updated_at
		)
		SELECT session_ids, updated_at, pg_notify($5, doc_path)::text
		FROM upsert
	`

	//nolint:exhaustruct //fields are scanned
	doc := models.HighlightDocument{}

	var notified string
	err := repo.db.QueryRow(
		ctx,
		query,
		docPath,
		namespace,
		userID,
		sessionIDs,
		HighlightChannel,
	).Scan(&doc.SessionIDs, &doc.UpdatedAt, &notified)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &doc, nil
}

// Listen blocks on the notification channel and calls onChange with the
// path of every overwritten document until ctx is done or the connection
// fails. onListening is called once the channel is listened on.
func (repo *HighlightRepository) Listen(
	ctx context.Context,
	onListening func(),
	onChange func(docPath string),
) error {
	conn, err := repo.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN "+HighlightChannel)
	if err != nil {
		return err
	}

	onListening()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		onChange(notification.Payload)
	}
}
