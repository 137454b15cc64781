package mocks

import (
	"context"
	"sync"
	"time"

	"programme.xdoubleu.com/apps/programme/internal/models"
	"programme.xdoubleu.com/apps/programme/internal/services"
)

// MockHighlightStore keeps highlight documents in memory and records every
// overwrite.
type MockHighlightStore struct {
	broker *services.Broker

	mu         sync.Mutex
	documents  map[string]models.HighlightDocument
	overwrites []models.HighlightSet
	err        error
	clock      time.Time
	gate       chan struct{}
}

func NewMockHighlightStore() *MockHighlightStore {
	return &MockHighlightStore{
		broker:     services.NewBroker(),
		mu:         sync.Mutex{},
		documents:  make(map[string]models.HighlightDocument),
		overwrites: []models.HighlightSet{},
		err:        nil,
		clock:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		gate:       nil,
	}
}

// Block holds every following Overwrite until Release or Unblock.
func (store *MockHighlightStore) Block() {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.gate = make(chan struct{})
}

// Release lets exactly one held Overwrite through, waiting for one to
// arrive if none is held yet.
func (store *MockHighlightStore) Release() {
	store.mu.Lock()
	gate := store.gate
	store.mu.Unlock()

	if gate != nil {
		gate <- struct{}{}
	}
}

// Unblock lets every held and following Overwrite through.
func (store *MockHighlightStore) Unblock() {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.gate != nil {
		close(store.gate)
		store.gate = nil
	}
}

// SetError makes every following Overwrite fail with err, nil restores
// normal behaviour.
func (store *MockHighlightStore) SetError(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.err = err
}

// Seed stores ids for userID without recording an overwrite and notifies
// subscribers as if another device wrote them.
func (store *MockHighlightStore) Seed(userID string, ids ...string) {
	store.broker.Publish(userID, store.put(userID, models.NewHighlightSet(ids...)))
}

func (store *MockHighlightStore) Overwrites() []models.HighlightSet {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := make([]models.HighlightSet, 0, len(store.overwrites))
	for _, set := range store.overwrites {
		result = append(result, set.Clone())
	}
	return result
}

func (store *MockHighlightStore) SubscriberCount(userID string) int {
	return store.broker.SubscriberCount(userID)
}

func (store *MockHighlightStore) Get(
	_ context.Context,
	userID string,
) (models.HighlightDocument, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	doc, ok := store.documents[userID]
	if !ok {
		return models.HighlightDocument{
			SessionIDs: []string{},
			UpdatedAt:  time.Time{},
		}, nil
	}
	return doc, nil
}

func (store *MockHighlightStore) Overwrite(
	ctx context.Context,
	userID string,
	set models.HighlightSet,
) (models.HighlightDocument, error) {
	store.mu.Lock()
	gate := store.gate
	store.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.HighlightDocument{}, ctx.Err()
		}
	}

	store.mu.Lock()
	err := store.err
	if err == nil {
		store.overwrites = append(store.overwrites, set.Clone())
	}
	store.mu.Unlock()

	if err != nil {
		return models.HighlightDocument{}, err
	}

	doc := store.put(userID, set)
	store.broker.Publish(userID, doc)
	return doc, nil
}

func (store *MockHighlightStore) Subscribe(
	ctx context.Context,
	userID string,
) (*services.Subscription, error) {
	sub := store.broker.Subscribe(userID)

	doc, err := store.Get(ctx, userID)
	if err != nil {
		sub.Close()
		return nil, err
	}

	sub.Deliver(doc)
	return sub, nil
}

func (store *MockHighlightStore) put(
	userID string,
	set models.HighlightSet,
) models.HighlightDocument {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.clock = store.clock.Add(time.Second)
	doc := models.HighlightDocument{
		SessionIDs: set.IDs(),
		UpdatedAt:  store.clock,
	}
	store.documents[userID] = doc

	return doc
}
