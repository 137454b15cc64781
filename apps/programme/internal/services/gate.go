package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"programme.xdoubleu.com/apps/programme/internal/dtos"
	"programme.xdoubleu.com/apps/programme/internal/models"
	sharedmodels "programme.xdoubleu.com/internal/models"
)

const (
	eventBuffer  = 16
	writeTimeout = 10 * time.Second
)

type GateState int

const (
	SignedOut GateState = iota
	SignedIn
)

// Reconciler receives every state change a Session wants reflected in the
// rendered programme.
type Reconciler interface {
	Reconcile(ctx context.Context, msg dtos.ServerMessageDto) error
}

type event interface {
	handle(ctx context.Context, session *Session)
}

type signInEvent struct {
	user sharedmodels.User
}

type signOutEvent struct{}

type toggleEvent struct {
	cellID string
}

type snapshotEvent struct {
	generation uint64
	doc        models.HighlightDocument
}

type writeResultEvent struct {
	generation uint64
	cellID     string
	doc        models.HighlightDocument
	err        error
}

type writeRequest struct {
	generation uint64
	userID     string
	cellID     string
	set        models.HighlightSet
}

// writeQueue hands writes to the writer goroutine in the order they were
// made without ever blocking the producer.
type writeQueue struct {
	mu      sync.Mutex
	pending []writeRequest
	closed  bool
	wake    chan struct{}
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		mu:      sync.Mutex{},
		pending: []writeRequest{},
		closed:  false,
		wake:    make(chan struct{}, 1),
	}
}

func (queue *writeQueue) push(req writeRequest) {
	queue.mu.Lock()
	queue.pending = append(queue.pending, req)
	queue.mu.Unlock()

	queue.signal()
}

func (queue *writeQueue) close() {
	queue.mu.Lock()
	queue.closed = true
	queue.mu.Unlock()

	queue.signal()
}

func (queue *writeQueue) signal() {
	select {
	case queue.wake <- struct{}{}:
	default:
	}
}

// next blocks until a write is queued. It reports false once the queue is
// closed and drained.
func (queue *writeQueue) next() (writeRequest, bool) {
	for {
		queue.mu.Lock()
		if len(queue.pending) > 0 {
			req := queue.pending[0]
			queue.pending = queue.pending[1:]
			queue.mu.Unlock()
			return req, true
		}
		closed := queue.closed
		queue.mu.Unlock()

		if closed {
			return writeRequest{}, false
		}
		<-queue.wake
	}
}

// Session is the highlight state of one open programme page. All inputs
// are events consumed in order by Run, so the fields below are only touched
// by the Run goroutine.
//
// While writes of this session are outstanding, snapshots are held back.
// Once the last write finished, the newest held snapshot is applied only if
// it is newer than the last document this session wrote, so echoes of its
// own writes never undo later toggles.
type Session struct {
	logger     *slog.Logger
	store      HighlightStore
	reconciler Reconciler
	metrics    *Metrics

	events chan event
	writes *writeQueue
	done   chan struct{}

	state        GateState
	user         *sharedmodels.User
	highlights   models.HighlightSet
	subscription *Subscription
	generation   uint64

	loaded      bool
	early       []string
	pending     int
	lastWritten time.Time
	held        *models.HighlightDocument
}

func NewSession(
	logger *slog.Logger,
	store HighlightStore,
	reconciler Reconciler,
	metrics *Metrics,
) *Session {
	return &Session{
		logger:       logger,
		store:        store,
		reconciler:   reconciler,
		metrics:      metrics,
		events:       make(chan event, eventBuffer),
		writes:       newWriteQueue(),
		done:         make(chan struct{}),
		state:        SignedOut,
		user:         nil,
		highlights:   models.NewHighlightSet(),
		subscription: nil,
		generation:   0,
		loaded:       false,
		early:        nil,
		pending:      0,
		lastWritten:  time.Time{},
		held:         nil,
	}
}

func (session *Session) SignIn(user sharedmodels.User) {
	session.post(signInEvent{user: user})
}

func (session *Session) SignOut() {
	session.post(signOutEvent{})
}

func (session *Session) Toggle(cellID string) {
	session.post(toggleEvent{cellID: cellID})
}

// Run consumes events until ctx is done. Leaving Run closes the active
// subscription, pending writes are still applied.
func (session *Session) Run(ctx context.Context) {
	writerCtx := context.WithoutCancel(ctx)
	writerDone := make(chan struct{})
	go session.writer(writerCtx, writerDone)

	defer func() {
		session.closeSubscription()
		close(session.done)
		session.writes.close()
		<-writerDone
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-session.events:
			e.handle(ctx, session)
		}
	}
}

func (session *Session) post(e event) {
	select {
	case session.events <- e:
	case <-session.done:
	}
}

func (session *Session) send(ctx context.Context, msg dtos.ServerMessageDto) {
	err := session.reconciler.Reconcile(ctx, msg)
	if err != nil {
		session.logger.Debug("failed to reconcile", logging.ErrAttr(err))
	}
}

func (session *Session) sendHighlights(
	ctx context.Context,
	phase dtos.Phase,
	cellID string,
) {
	//nolint:exhaustruct //other fields are optional
	session.send(ctx, dtos.ServerMessageDto{
		Type:    dtos.HighlightsMessage,
		CellIDs: session.highlights.IDs(),
		Phase:   phase,
		CellID:  cellID,
	})
}

func (e signInEvent) handle(ctx context.Context, session *Session) {
	if session.state == SignedIn {
		if session.user.ID == e.user.ID {
			return
		}
		signOutEvent{}.handle(ctx, session)
	}

	user := e.user
	session.state = SignedIn
	session.user = &user
	session.highlights = models.NewHighlightSet()

	//nolint:exhaustruct //other fields are optional
	session.send(ctx, dtos.ServerMessageDto{
		Type:     dtos.SessionMessage,
		SignedIn: true,
		Email:    user.Email,
		Name:     user.DisplayName(),
	})

	session.subscribe(ctx)
}

func (e signOutEvent) handle(ctx context.Context, session *Session) {
	if session.state == SignedOut {
		return
	}

	session.closeSubscription()
	session.generation++
	session.resetSync()

	session.state = SignedOut
	session.user = nil
	session.highlights = models.NewHighlightSet()

	//nolint:exhaustruct //other fields are optional
	session.send(ctx, dtos.ServerMessageDto{
		Type:     dtos.SessionMessage,
		SignedIn: false,
	})
	session.sendHighlights(ctx, dtos.Cleared, "")
}

func (e toggleEvent) handle(ctx context.Context, session *Session) {
	if session.state != SignedIn {
		return
	}

	session.highlights.Toggle(e.cellID)
	session.sendHighlights(ctx, dtos.Tentative, e.cellID)

	if !session.loaded {
		session.early = append(session.early, e.cellID)
		return
	}

	session.enqueueWrite(e.cellID)
}

func (e snapshotEvent) handle(ctx context.Context, session *Session) {
	if session.state != SignedIn || e.generation != session.generation {
		return
	}

	if !session.loaded {
		session.load(ctx, e.doc)
		return
	}

	if session.pending > 0 {
		doc := e.doc
		session.held = &doc
		return
	}

	session.apply(ctx, e.doc)
}

func (e writeResultEvent) handle(ctx context.Context, session *Session) {
	if session.state != SignedIn || e.generation != session.generation {
		return
	}

	session.pending--
	if e.err == nil && e.doc.UpdatedAt.After(session.lastWritten) {
		session.lastWritten = e.doc.UpdatedAt
	}

	if e.err != nil {
		session.sendHighlights(ctx, dtos.Unsynced, e.cellID)
	} else {
		session.sendHighlights(ctx, dtos.Confirmed, e.cellID)
	}

	if session.pending == 0 && session.held != nil {
		doc := *session.held
		session.held = nil
		session.apply(ctx, doc)
	}
}

// load applies the first snapshot after subscribing. Toggles made before it
// arrived are replayed on top of it and written as one set.
func (session *Session) load(ctx context.Context, doc models.HighlightDocument) {
	session.loaded = true
	session.highlights = doc.Set()

	early := session.early
	session.early = nil
	for _, cellID := range early {
		session.highlights.Toggle(cellID)
	}

	session.sendHighlights(ctx, dtos.Snapshot, "")

	if len(early) > 0 {
		session.enqueueWrite(early[len(early)-1])
	}
}

func (session *Session) apply(ctx context.Context, doc models.HighlightDocument) {
	if !session.lastWritten.IsZero() && !doc.UpdatedAt.After(session.lastWritten) {
		return
	}

	session.highlights = doc.Set()
	session.sendHighlights(ctx, dtos.Snapshot, "")
}

func (session *Session) resetSync() {
	session.loaded = false
	session.early = nil
	session.pending = 0
	session.lastWritten = time.Time{}
	session.held = nil
}

func (session *Session) subscribe(ctx context.Context) {
	session.closeSubscription()
	session.generation++
	session.resetSync()

	sub, err := session.store.Subscribe(ctx, session.user.ID)
	if err != nil {
		session.logger.Error(
			"failed to subscribe to highlights",
			logging.ErrAttr(err),
		)
		//nolint:exhaustruct //other fields are optional
		session.send(ctx, dtos.ServerMessageDto{
			Type:  dtos.ErrorMessage,
			Error: "failed to load highlights",
		})
		return
	}

	session.subscription = sub
	session.metrics.SubscriptionsActive.Inc()

	go session.forward(session.generation, sub)
}

func (session *Session) closeSubscription() {
	if session.subscription == nil {
		return
	}

	session.subscription.Close()
	session.subscription = nil
	session.metrics.SubscriptionsActive.Dec()
}

func (session *Session) forward(generation uint64, sub *Subscription) {
	for doc := range sub.Snapshots() {
		session.post(snapshotEvent{generation: generation, doc: doc})
	}
}

// enqueueWrite queues a write of the current set. Writes are applied in
// the order they were made.
func (session *Session) enqueueWrite(cellID string) {
	session.pending++
	session.writes.push(writeRequest{
		generation: session.generation,
		userID:     session.user.ID,
		cellID:     cellID,
		set:        session.highlights.Clone(),
	})
}

func (session *Session) writer(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	for {
		req, ok := session.writes.next()
		if !ok {
			return
		}

		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		doc, err := session.store.Overwrite(writeCtx, req.userID, req.set)
		cancel()

		session.metrics.HighlightWrites.WithLabelValues(result(err)).Inc()
		if err != nil {
			session.logger.Error(
				"failed to write highlights",
				slog.String("cellId", req.cellID),
				logging.ErrAttr(err),
			)
		}

		session.post(writeResultEvent{
			generation: req.generation,
			cellID:     req.cellID,
			doc:        doc,
			err:        err,
		})
	}
}
