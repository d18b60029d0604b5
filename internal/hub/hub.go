// Package hub hosts many game sessions behind a single owning goroutine.
// Callers submit commands with Do; the hub applies them one at a time,
// schedules the computer's reply after the thinking delay, and fans session
// events out to subscribers.
package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// SessionID identifies a hosted session.
type SessionID string

var (
	ErrNotFound = errors.New("hub: session not found")
	ErrClosed   = errors.New("hub: closed")
)

// Config holds configuration for the hub.
type Config struct {
	ThinkingDelay time.Duration // Pause before the computer moves
	IdleTimeout   time.Duration // Sessions untouched this long are dropped
	CleanupPeriod time.Duration // How often to look for idle sessions
	EventBuffer   int           // Per-subscription buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ThinkingDelay: 700 * time.Millisecond,
		IdleTimeout:   30 * time.Minute,
		CleanupPeriod: time.Minute,
		EventBuffer:   64,
	}
}

// Factory creates or restores the session for id.
type Factory func(ctx context.Context, id SessionID) (*tictactoe.Session, error)

type entry struct {
	session  *tictactoe.Session
	subs     map[*Subscription]struct{}
	lastUsed time.Time
	events   uint64 // Bumped by every session event
	timer    *time.Timer
	gen      uint64 // Invalidates opponent turns queued by a stopped timer
}

type commandKind uint8

const (
	cmdApply commandKind = iota
	cmdOpponentTurn
	cmdRemove
	cmdCount
)

type command struct {
	kind   commandKind
	id     SessionID
	create bool
	gen    uint64
	fn     func(e *entry) error
	ctx    context.Context
	reply  chan error
	count  *int
}

// Hub owns a set of sessions. All session access happens on the hub's
// goroutine, so sessions need no locking.
type Hub struct {
	cfg     Config
	factory Factory
	logger  *log.Logger
	now     func() time.Time

	entries map[SessionID]*entry

	msgChan   chan command
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
}

// New creates a hub. Call Start before use.
func New(cfg Config, factory Factory, logger *log.Logger) *Hub {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultConfig().CleanupPeriod
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		cfg:     cfg,
		factory: factory,
		logger:  logger,
		now:     time.Now,
		entries: make(map[SessionID]*entry),
		msgChan: make(chan command, 256),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the hub's background processing.
func (h *Hub) Start() {
	h.startOnce.Do(func() {
		go h.run()
	})
}

// Stop shuts the hub down, cancelling pending opponent turns and closing
// every subscription. It waits for the hub goroutine to exit.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	// A hub that never started has no goroutine to wait for.
	h.startOnce.Do(func() {
		close(h.stopped)
	})
	<-h.stopped
}

// Create starts a new session under a fresh id.
func (h *Hub) Create(ctx context.Context) (SessionID, error) {
	id := SessionID(uuid.NewString())
	if err := h.Open(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Open makes sure the session for id is loaded, creating it through the
// factory when needed.
func (h *Hub) Open(ctx context.Context, id SessionID) error {
	return h.exec(ctx, command{kind: cmdApply, id: id, create: true})
}

// Do runs fn against the session on the hub goroutine and returns its error.
// fn must not retain the session or block.
func (h *Hub) Do(ctx context.Context, id SessionID, fn func(s *tictactoe.Session) error) error {
	return h.exec(ctx, command{
		kind: cmdApply,
		id:   id,
		fn:   func(e *entry) error { return fn(e.session) },
	})
}

// View returns the render projection of the session.
func (h *Hub) View(ctx context.Context, id SessionID) (tictactoe.View, error) {
	var v tictactoe.View
	err := h.Do(ctx, id, func(s *tictactoe.Session) error {
		v = s.View()
		return nil
	})
	return v, err
}

// Subscribe registers a subscription for the session's events.
func (h *Hub) Subscribe(ctx context.Context, id SessionID) (*Subscription, error) {
	var sub *Subscription
	err := h.exec(ctx, command{
		kind: cmdApply,
		id:   id,
		fn: func(e *entry) error {
			sub = newSubscription(id, h.cfg.EventBuffer)
			e.subs[sub] = struct{}{}
			return nil
		},
	})
	return sub, err
}

// Remove drops the session, closing its subscriptions.
func (h *Hub) Remove(ctx context.Context, id SessionID) error {
	return h.exec(ctx, command{kind: cmdRemove, id: id})
}

// Len returns the number of hosted sessions.
func (h *Hub) Len(ctx context.Context) (int, error) {
	var n int
	err := h.exec(ctx, command{kind: cmdCount, count: &n})
	return n, err
}

func (h *Hub) exec(ctx context.Context, cmd command) error {
	cmd.ctx = ctx
	cmd.reply = make(chan error, 1)

	select {
	case h.msgChan <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrClosed
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrClosed
	}
}

// send queues an internal command without waiting for a reply.
func (h *Hub) send(cmd command) {
	select {
	case h.msgChan <- cmd:
	case <-h.done:
	}
}

func (h *Hub) run() {
	defer close(h.stopped)

	ticker := time.NewTicker(h.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-h.msgChan:
			h.handle(cmd)
		case <-ticker.C:
			h.evictIdle()
		case <-h.done:
			h.shutdown()
			return
		}
	}
}

func (h *Hub) handle(cmd command) {
	switch cmd.kind {
	case cmdOpponentTurn:
		h.playOpponent(cmd)
		return
	case cmdCount:
		*cmd.count = len(h.entries)
		cmd.reply <- nil
		return
	}

	e, ok := h.entries[cmd.id]
	if !ok {
		if !cmd.create {
			cmd.reply <- fmt.Errorf("%w: %s", ErrNotFound, cmd.id)
			return
		}
		var err error
		if e, err = h.open(cmd.ctx, cmd.id); err != nil {
			cmd.reply <- err
			return
		}
	}

	if cmd.kind == cmdRemove {
		h.drop(cmd.id, e)
		h.logger.Debug("session removed", "id", cmd.id)
		cmd.reply <- nil
		return
	}

	e.lastUsed = h.now()
	before := e.events

	var err error
	if cmd.fn != nil {
		err = cmd.fn(e)
	}
	if e.events != before {
		h.schedule(cmd.id, e)
	}
	cmd.reply <- err
}

func (h *Hub) open(ctx context.Context, id SessionID) (*entry, error) {
	s, err := h.factory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("hub: open session %s: %w", id, err)
	}

	e := &entry{
		session:  s,
		subs:     make(map[*Subscription]struct{}),
		lastUsed: h.now(),
	}
	s.Subscribe(tictactoe.ObserverFunc(func(ev tictactoe.Event) {
		e.events++
		h.fanOut(e, ev)
	}))
	h.entries[id] = e

	h.logger.Debug("session opened", "id", id, "sessions", len(h.entries))

	// A restored session may be waiting on the computer.
	h.schedule(id, e)
	return e, nil
}

// schedule arms the opponent timer when the computer is due to move and
// invalidates any previously armed turn.
func (h *Hub) schedule(id SessionID, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++

	if !e.session.OpponentPending() {
		return
	}

	gen := e.gen
	e.timer = time.AfterFunc(h.cfg.ThinkingDelay, func() {
		h.send(command{kind: cmdOpponentTurn, id: id, gen: gen})
	})
}

func (h *Hub) playOpponent(cmd command) {
	e, ok := h.entries[cmd.id]
	if !ok || cmd.gen != e.gen {
		return
	}
	e.timer = nil

	if !e.session.OpponentPending() {
		return
	}

	before := e.events
	cell, err := e.session.SubmitOpponentTurn()
	if err != nil {
		h.logger.Error("opponent turn failed", "id", cmd.id, "error", err)
		return
	}
	h.logger.Debug("opponent moved", "id", cmd.id, "cell", cell)

	if e.events != before {
		h.schedule(cmd.id, e)
	}
}

func (h *Hub) fanOut(e *entry, ev tictactoe.Event) {
	for sub := range e.subs {
		if sub.closed() {
			delete(e.subs, sub)
			continue
		}
		sub.send(ev)
	}
}

func (h *Hub) evictIdle() {
	if h.cfg.IdleTimeout <= 0 {
		return
	}
	cutoff := h.now().Add(-h.cfg.IdleTimeout)
	for id, e := range h.entries {
		if e.lastUsed.Before(cutoff) {
			h.drop(id, e)
			h.logger.Debug("idle session evicted", "id", id)
		}
	}
}

func (h *Hub) drop(id SessionID, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	for sub := range e.subs {
		sub.Close()
	}
	delete(h.entries, id)
}

func (h *Hub) shutdown() {
	for id, e := range h.entries {
		h.drop(id, e)
	}
	h.logger.Debug("hub stopped")
}
