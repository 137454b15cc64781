package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"programme.xdoubleu.com/apps/programme/internal/models"
	"programme.xdoubleu.com/apps/programme/internal/services"
)

func doc(at time.Time, ids ...string) models.HighlightDocument {
	return models.HighlightDocument{
		SessionIDs: ids,
		UpdatedAt:  at,
	}
}

func TestBrokerKeepsLatestSnapshot(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	defer sub.Close()

	now := time.Now()
	broker.Publish(userID, doc(now, cellA))
	broker.Publish(userID, doc(now.Add(time.Second), cellB))

	snapshot := <-sub.Snapshots()
	assert.Equal(t, []string{cellB}, snapshot.SessionIDs)

	select {
	case <-sub.Snapshots():
		require.FailNow(t, "only the latest snapshot should be pending")
	default:
	}
}

func TestBrokerDropsStaleSnapshot(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	defer sub.Close()

	now := time.Now()
	assert.True(t, sub.Deliver(doc(now, cellA)))
	<-sub.Snapshots()

	assert.False(t, sub.Deliver(doc(now.Add(-time.Second), cellB)))
}

func TestBrokerOnlyReachesUser(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	defer sub.Close()

	broker.Publish(otherID, doc(time.Now(), cellA))

	select {
	case <-sub.Snapshots():
		require.FailNow(t, "snapshot of another user delivered")
	default:
	}
}

func TestClosedSubscription(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	assert.Equal(t, 1, broker.SubscriberCount(userID))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, broker.SubscriberCount(userID))
	assert.False(t, sub.Deliver(doc(time.Now(), cellA)))

	_, open := <-sub.Snapshots()
	assert.False(t, open)
}

func TestBrokerRefreshPublishesSubscribedUsers(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	defer sub.Close()

	now := time.Now()
	fetched := []string{}
	err := broker.Refresh(
		context.Background(),
		func(_ context.Context, id string) (models.HighlightDocument, error) {
			fetched = append(fetched, id)
			return doc(now, cellA, cellB), nil
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{userID}, fetched)

	snapshot := <-sub.Snapshots()
	assert.Equal(t, []string{cellA, cellB}, snapshot.SessionIDs)
}

func TestBrokerRefreshReportsFailures(t *testing.T) {
	broker := services.NewBroker()
	sub := broker.Subscribe(userID)
	defer sub.Close()

	err := broker.Refresh(
		context.Background(),
		func(_ context.Context, _ string) (models.HighlightDocument, error) {
			return models.HighlightDocument{}, errors.New("unavailable")
		},
	)
	require.Error(t, err)

	select {
	case <-sub.Snapshots():
		require.FailNow(t, "snapshot delivered after failed fetch")
	default:
	}
}
