package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
	"github.com/vovakirdan/tictactoe/internal/hub"
)

type handlers struct {
	hub    *hub.Hub
	logger *log.Logger
}

type scoresJSON struct {
	Player   uint `json:"player"`
	Computer uint `json:"computer"`
	Ties     uint `json:"ties"`
}

type viewJSON struct {
	Board          []string   `json:"board"`
	WinningLine    []int      `json:"winningLine"`
	Status         string     `json:"status"`
	Message        string     `json:"message"`
	Scores         scoresJSON `json:"scores"`
	Difficulty     int        `json:"difficulty"`
	DifficultyName string     `json:"difficultyName"`
	Active         bool       `json:"gameActive"`
	CanUndo        bool       `json:"canUndo"`
	Moves          int        `json:"moves"`
}

type sessionJSON struct {
	ID string `json:"id"`
	viewJSON
}

type moveJSON struct {
	Cell   int    `json:"cell"`
	Player string `json:"player"`
}

type eventJSON struct {
	Kind    string      `json:"kind"`
	Move    *moveJSON   `json:"move,omitempty"`
	Outcome string      `json:"outcome,omitempty"`
	Undone  int         `json:"undone,omitempty"`
	Session sessionJSON `json:"session"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func newViewJSON(v tictactoe.View) viewJSON {
	out := viewJSON{
		Board:          make([]string, len(v.Cells)),
		Status:         v.Status.String(),
		Message:        v.Status.Message(),
		Scores:         scoresJSON{Player: v.Scores.Human, Computer: v.Scores.Opponent, Ties: v.Scores.Ties},
		Difficulty:     int(v.Difficulty),
		DifficultyName: v.Difficulty.String(),
		Active:         v.Active,
		CanUndo:        v.CanUndo,
		Moves:          v.Moves,
	}
	for i, c := range v.Cells {
		out.Board[i] = c.Mark.String()
		if c.Winning {
			out.WinningLine = append(out.WinningLine, i)
		}
	}
	return out
}

// newEventJSON describes the session as it was right after ev.
func newEventJSON(id hub.SessionID, ev tictactoe.Event) eventJSON {
	out := eventJSON{
		Kind:    ev.Kind.String(),
		Session: sessionJSON{ID: string(id), viewJSON: newViewJSON(ev.Snapshot.View())},
	}
	switch ev.Kind {
	case tictactoe.EventMove:
		out.Move = &moveJSON{Cell: ev.Move.Cell, Player: ev.Move.Player.String()}
	case tictactoe.EventGameOver:
		out.Outcome = tictactoe.NewGameResult(ev.Result, ev.Snapshot, time.Time{}).Outcome
	case tictactoe.EventUndo:
		out.Undone = ev.Undone
	}
	return out
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	id, err := h.hub.Create(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondView(w, r, id, http.StatusCreated)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, sessionID(r), http.StatusOK)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Remove(r.Context(), sessionID(r)); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cell *int `json:"cell"`
	}
	if err := decode(w, r, &body); err != nil || body.Cell == nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "body must be {\"cell\": 0-8}"})
		return
	}
	h.apply(w, r, func(s *tictactoe.Session) error {
		_, err := s.SubmitHumanMove(*body.Cell)
		return err
	})
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(s *tictactoe.Session) error {
		s.UndoTurn()
		return nil
	})
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(s *tictactoe.Session) error {
		s.ResetBoard()
		return nil
	})
}

func (h *handlers) difficulty(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level *int `json:"level"`
	}
	if err := decode(w, r, &body); err != nil || body.Level == nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "body must be {\"level\": 1-3}"})
		return
	}
	h.apply(w, r, func(s *tictactoe.Session) error {
		return s.SetDifficulty(*body.Level)
	})
}

// events long-polls for the next session event. It answers 204 when none
// arrives within the wait query parameter.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	wait := defaultWait
	if q := r.URL.Query().Get("wait"); q != "" {
		d, err := time.ParseDuration(q)
		if err != nil || d <= 0 {
			writeJSON(w, http.StatusBadRequest, errorJSON{Error: "wait must be a positive duration"})
			return
		}
		wait = min(d, maxWait)
	}

	id := sessionID(r)
	sub, err := h.hub.Subscribe(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer sub.Close()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ev := <-sub.Events():
		writeJSON(w, http.StatusOK, newEventJSON(id, ev))
	case <-sub.Done():
		h.fail(w, hub.ErrNotFound)
	case <-timer.C:
		w.WriteHeader(http.StatusNoContent)
	case <-r.Context().Done():
	}
}

// apply runs fn on the session and answers with the resulting view.
func (h *handlers) apply(w http.ResponseWriter, r *http.Request, fn func(s *tictactoe.Session) error) {
	id := sessionID(r)
	var v tictactoe.View
	err := h.hub.Do(r.Context(), id, func(s *tictactoe.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		v = s.View()
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON{ID: string(id), viewJSON: newViewJSON(v)})
}

func (h *handlers) respondView(w http.ResponseWriter, r *http.Request, id hub.SessionID, status int) {
	v, err := h.hub.View(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, status, sessionJSON{ID: string(id), viewJSON: newViewJSON(v)})
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorJSON{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, hub.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tictactoe.ErrIllegalMove):
		return http.StatusConflict
	case errors.Is(err, tictactoe.ErrInvalidDifficulty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, hub.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func sessionID(r *http.Request) hub.SessionID {
	return hub.SessionID(chi.URLParam(r, "id"))
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
