package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"programme.xdoubleu.com/internal/auth"
)

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestNotifyClosesWatchersOfUser(t *testing.T) {
	signOuts := auth.NewSignOuts()

	first, stopFirst := signOuts.Watch("user")
	defer stopFirst()
	second, stopSecond := signOuts.Watch("user")
	defer stopSecond()
	other, stopOther := signOuts.Watch("other")
	defer stopOther()

	signOuts.Notify("user")

	assert.True(t, closed(first))
	assert.True(t, closed(second))
	assert.False(t, closed(other))
	assert.Equal(t, 0, signOuts.WatcherCount("user"))
	assert.Equal(t, 1, signOuts.WatcherCount("other"))

	// notifying again and stopping afterwards are no-ops
	signOuts.Notify("user")
}

func TestStopWatching(t *testing.T) {
	signOuts := auth.NewSignOuts()

	ch, stop := signOuts.Watch("user")
	assert.Equal(t, 1, signOuts.WatcherCount("user"))

	stop()
	stop()
	assert.Equal(t, 0, signOuts.WatcherCount("user"))

	signOuts.Notify("user")
	assert.False(t, closed(ch))
}
