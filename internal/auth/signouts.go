package auth

import "sync"

// SignOuts tells long lived connections that their user signed out.
type SignOuts struct {
	mu       sync.Mutex
	watchers map[string]map[chan struct{}]struct{}
}

func NewSignOuts() *SignOuts {
	return &SignOuts{
		mu:       sync.Mutex{},
		watchers: make(map[string]map[chan struct{}]struct{}),
	}
}

func (signOuts *SignOuts) Watch(userID string) (<-chan struct{}, func()) {
	ch := make(chan struct{})

	signOuts.mu.Lock()
	if _, ok := signOuts.watchers[userID]; !ok {
		signOuts.watchers[userID] = make(map[chan struct{}]struct{})
	}
	signOuts.watchers[userID][ch] = struct{}{}
	signOuts.mu.Unlock()

	return ch, func() {
		signOuts.mu.Lock()
		defer signOuts.mu.Unlock()

		watchers, ok := signOuts.watchers[userID]
		if !ok {
			return
		}
		if _, ok = watchers[ch]; !ok {
			return
		}

		delete(watchers, ch)
		if len(watchers) == 0 {
			delete(signOuts.watchers, userID)
		}
	}
}

// Notify closes the channel of every watcher of userID. Watchers are
// removed, a later sign in has to watch again.
func (signOuts *SignOuts) Notify(userID string) {
	signOuts.mu.Lock()
	defer signOuts.mu.Unlock()

	for ch := range signOuts.watchers[userID] {
		close(ch)
	}
	delete(signOuts.watchers, userID)
}

func (signOuts *SignOuts) WatcherCount(userID string) int {
	signOuts.mu.Lock()
	defer signOuts.mu.Unlock()

	return len(signOuts.watchers[userID])
}
