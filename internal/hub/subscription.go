package hub

import (
	"sync"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// Subscription delivers one session's events to a reader on another
// goroutine. Delivery never blocks the hub: when the buffer is full the
// oldest event is dropped.
type Subscription struct {
	id       SessionID
	events   chan tictactoe.Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(id SessionID, bufferSize int) *Subscription {
	if bufferSize < 1 {
		bufferSize = 64 // Default buffer size
	}
	return &Subscription{
		id:     id,
		events: make(chan tictactoe.Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session the subscription follows.
func (s *Subscription) ID() SessionID {
	return s.id
}

// send delivers ev, dropping the oldest buffered event if needed.
func (s *Subscription) send(ev tictactoe.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- ev:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan tictactoe.Event {
	return s.events
}

// Done returns a channel that closes when the subscription ends, either by
// Close or because the hub dropped the session.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
