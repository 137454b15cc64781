package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"programme.xdoubleu.com/apps/programme/internal/models"
	"programme.xdoubleu.com/apps/programme/internal/repositories"
)

const listenRetryDelay = 5 * time.Second

type HighlightStore interface {
	Get(ctx context.Context, userID string) (models.HighlightDocument, error)
	// Overwrite replaces the whole document and returns it as stored.
	Overwrite(
		ctx context.Context,
		userID string,
		set models.HighlightSet,
	) (models.HighlightDocument, error)
	// Subscribe delivers the current document first and every later
	// overwrite of the document after it.
	Subscribe(ctx context.Context, userID string) (*Subscription, error)
}

// Subscription holds at most one undelivered snapshot. A newer snapshot
// replaces a pending one and snapshots older than the last delivered one
// are dropped.
type Subscription struct {
	userID    string
	broker    *Broker
	snapshots chan models.HighlightDocument

	mu     sync.Mutex
	last   time.Time
	closed bool
}

func (sub *Subscription) Snapshots() <-chan models.HighlightDocument {
	return sub.snapshots
}

func (sub *Subscription) UserID() string {
	return sub.userID
}

// Close stops delivery and closes the snapshot channel. It is safe to call
// more than once.
func (sub *Subscription) Close() {
	sub.broker.remove(sub)

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.snapshots)
}

// Deliver offers doc to the subscriber. It reports whether doc was queued.
func (sub *Subscription) Deliver(doc models.HighlightDocument) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed || doc.UpdatedAt.Before(sub.last) {
		return false
	}
	sub.last = doc.UpdatedAt

	select {
	case <-sub.snapshots:
	default:
	}
	sub.snapshots <- doc

	return true
}

// Broker fans highlight documents out to the subscriptions of their user.
type Broker struct {
	mu          sync.Mutex
	subscribers map[string]map[*Subscription]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		mu:          sync.Mutex{},
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

func (broker *Broker) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		userID:    userID,
		broker:    broker,
		snapshots: make(chan models.HighlightDocument, 1),
		mu:        sync.Mutex{},
		last:      time.Time{},
		closed:    false,
	}

	broker.mu.Lock()
	defer broker.mu.Unlock()

	if _, ok := broker.subscribers[userID]; !ok {
		broker.subscribers[userID] = make(map[*Subscription]struct{})
	}
	broker.subscribers[userID][sub] = struct{}{}

	return sub
}

func (broker *Broker) Publish(userID string, doc models.HighlightDocument) {
	broker.mu.Lock()
	subs := make([]*Subscription, 0, len(broker.subscribers[userID]))
	for sub := range broker.subscribers[userID] {
		subs = append(subs, sub)
	}
	broker.mu.Unlock()

	for _, sub := range subs {
		sub.Deliver(doc)
	}
}

// Refresh fetches the document of every user with subscribers and
// publishes it.
func (broker *Broker) Refresh(
	ctx context.Context,
	fetch func(ctx context.Context, userID string) (models.HighlightDocument, error),
) error {
	broker.mu.Lock()
	userIDs := make([]string, 0, len(broker.subscribers))
	for userID := range broker.subscribers {
		userIDs = append(userIDs, userID)
	}
	broker.mu.Unlock()

	var errs []error
	for _, userID := range userIDs {
		doc, err := fetch(ctx, userID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		broker.Publish(userID, doc)
	}

	return errors.Join(errs...)
}

func (broker *Broker) SubscriberCount(userID string) int {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	return len(broker.subscribers[userID])
}

func (broker *Broker) remove(sub *Subscription) {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	subs, ok := broker.subscribers[sub.userID]
	if !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(broker.subscribers, sub.userID)
	}
}

// DocumentStore keeps highlight documents in Postgres and pushes changes
// announced on the notification channel to local subscribers.
type DocumentStore struct {
	logger     *slog.Logger
	namespace  string
	highlights *repositories.HighlightRepository
	broker     *Broker
}

func NewDocumentStore(
	logger *slog.Logger,
	namespace string,
	highlights *repositories.HighlightRepository,
) *DocumentStore {
	return &DocumentStore{
		logger:     logger,
		namespace:  namespace,
		highlights: highlights,
		broker:     NewBroker(),
	}
}

func (store *DocumentStore) Get(
	ctx context.Context,
	userID string,
) (models.HighlightDocument, error) {
	return store.highlights.Get(ctx, models.DocumentPath(store.namespace, userID))
}

func (store *DocumentStore) Overwrite(
	ctx context.Context,
	userID string,
	set models.HighlightSet,
) (models.HighlightDocument, error) {
	doc, err := store.highlights.Overwrite(
		ctx,
		models.DocumentPath(store.namespace, userID),
		store.namespace,
		userID,
		set.IDs(),
	)
	if err != nil {
		return models.HighlightDocument{}, err
	}

	store.broker.Publish(userID, *doc)
	return *doc, nil
}

func (store *DocumentStore) Subscribe(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	sub := store.broker.Subscribe(userID)

	doc, err := store.Get(ctx, userID)
	if err != nil {
		sub.Close()
		return nil, err
	}

	sub.Deliver(doc)
	return sub, nil
}

// Listen forwards overwrites made by other processes to local subscribers
// until ctx is done. A lost connection is retried after a delay, once
// listening again every subscribed document is fetched to catch up on
// notifications missed in between.
func (store *DocumentStore) Listen(ctx context.Context) {
	reconnect := false

	for {
		err := store.highlights.Listen(
			ctx,
			func() {
				if reconnect {
					store.resync(ctx)
				}
				reconnect = true
			},
			func(docPath string) {
				store.refresh(ctx, docPath)
			},
		)
		if ctx.Err() != nil {
			return
		}

		store.logger.Error("highlight listener stopped", logging.ErrAttr(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (store *DocumentStore) resync(ctx context.Context) {
	err := store.broker.Refresh(ctx, store.Get)
	if err != nil {
		store.logger.Error(
			"failed to resync highlight documents",
			logging.ErrAttr(err),
		)
	}
}

func (store *DocumentStore) refresh(ctx context.Context, docPath string) {
	namespace, userID, ok := models.ParseDocumentPath(docPath)
	if !ok || namespace != store.namespace {
		return
	}

	if store.broker.SubscriberCount(userID) == 0 {
		return
	}

	doc, err := store.Get(ctx, userID)
	if err != nil {
		store.logger.Error(
			"failed to fetch highlight document",
			slog.String("path", docPath),
			logging.ErrAttr(err),
		)
		return
	}

	store.broker.Publish(userID, doc)
}
