package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

func hardFactory(_ context.Context, _ SessionID) (*tictactoe.Session, error) {
	return tictactoe.New(tictactoe.WithDifficulty(tictactoe.Hard), tictactoe.WithSeed(1)), nil
}

func startHub(t *testing.T, cfg Config, factory Factory) *Hub {
	t.Helper()
	h := New(cfg, factory, nil)
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.ThinkingDelay = 10 * time.Millisecond
	return cfg
}

func TestCreateAndView(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)
	ctx := context.Background()

	id, err := h.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	v, err := h.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tictactoe.StatusHumanTurn, v.Status)

	n, err := h.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDoUnknownSession(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)

	err := h.Do(context.Background(), "missing", func(*tictactoe.Session) error { return nil })

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDoReturnsSessionError(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)

	err = h.Do(ctx, id, func(s *tictactoe.Session) error {
		_, err := s.SubmitHumanMove(42)
		return err
	})

	assert.ErrorIs(t, err, tictactoe.ErrIllegalMove)
}

func TestOpponentMovesAfterDelay(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)
	sub, err := h.Subscribe(ctx, id)
	require.NoError(t, err)

	// When the human plays a corner
	err = h.Do(ctx, id, func(s *tictactoe.Session) error {
		_, err := s.SubmitHumanMove(0)
		return err
	})
	require.NoError(t, err)

	// Then both moves arrive on the subscription, the computer's taking the center
	var moves []tictactoe.Move
	timeout := time.After(2 * time.Second)
	for len(moves) < 2 {
		select {
		case ev := <-sub.Events():
			if ev.Kind == tictactoe.EventMove {
				moves = append(moves, ev.Move)
			}
		case <-timeout:
			t.Fatalf("got %d moves before timeout", len(moves))
		}
	}
	assert.Equal(t, tictactoe.Move{Cell: 0, Player: tictactoe.Human}, moves[0])
	assert.Equal(t, tictactoe.Move{Cell: 4, Player: tictactoe.Opponent}, moves[1])

	v, err := h.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tictactoe.StatusHumanTurn, v.Status)
}

func TestUndoCancelsPendingOpponentTurn(t *testing.T) {
	cfg := fastConfig()
	cfg.ThinkingDelay = 50 * time.Millisecond
	h := startHub(t, cfg, hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)

	err = h.Do(ctx, id, func(s *tictactoe.Session) error {
		if _, err := s.SubmitHumanMove(0); err != nil {
			return err
		}
		s.UndoTurn()
		return nil
	})
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)

	v, err := h.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Moves)
	assert.Equal(t, tictactoe.StatusHumanTurn, v.Status)
}

func TestRestoredSessionResumesOpponentTurn(t *testing.T) {
	factory := func(_ context.Context, _ SessionID) (*tictactoe.Session, error) {
		s := tictactoe.New(tictactoe.WithSeed(1))
		err := s.Restore(tictactoe.Snapshot{
			Board:         tictactoe.Board{tictactoe.X},
			CurrentPlayer: tictactoe.Opponent,
			Active:        true,
			Difficulty:    tictactoe.Hard,
		})
		return s, err
	}
	h := startHub(t, fastConfig(), factory)
	ctx := context.Background()

	require.NoError(t, h.Open(ctx, "resumed"))

	require.Eventually(t, func() bool {
		v, err := h.View(ctx, "resumed")
		return err == nil && v.Cells[4].Mark == tictactoe.O
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCommandsAreSerialized(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)

	// counter is unsynchronized; the hub goroutine is its only writer.
	counter := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Do(ctx, id, func(*tictactoe.Session) error {
				counter++
				return nil
			}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestFactoryError(t *testing.T) {
	boom := errors.New("store down")
	h := startHub(t, fastConfig(), func(context.Context, SessionID) (*tictactoe.Session, error) {
		return nil, boom
	})

	_, err := h.Create(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestRemoveClosesSubscriptions(t *testing.T) {
	h := startHub(t, fastConfig(), hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)
	sub, err := h.Subscribe(ctx, id)
	require.NoError(t, err)

	require.NoError(t, h.Remove(ctx, id))

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
	assert.ErrorIs(t, h.Remove(ctx, id), ErrNotFound)
}

func TestIdleSessionsEvicted(t *testing.T) {
	cfg := fastConfig()
	cfg.IdleTimeout = 20 * time.Millisecond
	cfg.CleanupPeriod = 10 * time.Millisecond
	h := startHub(t, cfg, hardFactory)
	ctx := context.Background()
	id, err := h.Create(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err := h.Len(ctx)
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, h.Do(ctx, id, func(*tictactoe.Session) error { return nil }), ErrNotFound)
}

func TestStoppedHub(t *testing.T) {
	h := New(fastConfig(), hardFactory, nil)
	h.Start()
	h.Stop()
	h.Stop()

	_, err := h.Create(context.Background())

	assert.ErrorIs(t, err, ErrClosed)
}

func TestStopWithoutStart(t *testing.T) {
	h := New(fastConfig(), hardFactory, nil)

	done := make(chan struct{})
	go func() {
		h.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a hub that never started")
	}
}

func TestDoHonorsContext(t *testing.T) {
	h := New(fastConfig(), hardFactory, nil)
	defer h.Stop()
	// Never started: commands queue but are not processed.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := h.Do(ctx, "x", func(*tictactoe.Session) error { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscriptionDropsOldest(t *testing.T) {
	sub := newSubscription("s", 2)

	sub.send(tictactoe.Event{Undone: 1})
	sub.send(tictactoe.Event{Undone: 2})
	sub.send(tictactoe.Event{Undone: 3})

	assert.Equal(t, 2, (<-sub.Events()).Undone)
	assert.Equal(t, 3, (<-sub.Events()).Undone)

	sub.Close()
	sub.Close()
	sub.send(tictactoe.Event{Undone: 4})
	select {
	case <-sub.Events():
		t.Fatal("closed subscription received an event")
	default:
	}
}
