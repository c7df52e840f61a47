package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/caixa/calculator"
	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// SESSION STORE - Open calculator overlays
// =============================================================================

const (
	// SessionTTL is how long an untouched session survives.
	SessionTTL = 30 * time.Minute
	// MaxSessions caps open sessions; the least recently used one is evicted.
	MaxSessions = 1024
)

type sessionEntry struct {
	session calculator.Session
	touched time.Time
}

// sessionStore keeps the sessions of open overlays. A session is dropped on
// close, on Escape, after a successful commit, and once idle past the TTL.
type sessionStore struct {
	mu   sync.Mutex
	byID map[string]sessionEntry
	ttl  time.Duration
	max  int
	now  func() time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		byID: make(map[string]sessionEntry),
		ttl:  SessionTTL,
		max:  MaxSessions,
		now:  time.Now,
	}
}

func (s *sessionStore) create() (string, calculator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.pruneLocked(now)

	id := uuid.NewString()
	sess := calculator.New()
	s.byID[id] = sessionEntry{session: sess, touched: now}
	return id, sess
}

// pruneLocked drops idle sessions and, when still full, the oldest one.
func (s *sessionStore) pruneLocked(now time.Time) {
	var oldestID string
	var oldest time.Time
	for id, e := range s.byID {
		if now.Sub(e.touched) > s.ttl {
			delete(s.byID, id)
			continue
		}
		if oldestID == "" || e.touched.Before(oldest) {
			oldestID, oldest = id, e.touched
		}
	}
	if len(s.byID) >= s.max && oldestID != "" {
		delete(s.byID, oldestID)
	}
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *sessionStore) get(id string) (calculator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return calculator.Session{}, false
	}
	e.touched = s.now()
	s.byID[id] = e
	return e.session, true
}

// update applies fn to a session under the lock. When fn reports the session
// ended it is removed.
func (s *sessionStore) update(id string, fn func(calculator.Session) (calculator.Session, bool)) (calculator.Session, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return calculator.Session{}, false, false
	}
	next, ended := fn(e.session)
	if ended {
		delete(s.byID, id)
	} else {
		s.byID[id] = sessionEntry{session: next, touched: s.now()}
	}
	return next, ended, true
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// CreateCalculatorSession opens a fresh calculator.
// POST /api/calculator/sessions
func (h *Handler) CreateCalculatorSession(w http.ResponseWriter, r *http.Request) {
	id, sess := h.sessions.create()
	writeJSON(w, http.StatusCreated, toSessionDTO(id, sess))
}

// GetCalculatorSession returns the current display.
// GET /api/calculator/sessions/{id}
func (h *Handler) GetCalculatorSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Calculator session not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(id, sess))
}

// PressKeys feeds key names to the session. Escape closes it.
// POST /api/calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sess, closed, ok := h.sessions.update(id, func(s calculator.Session) (calculator.Session, bool) {
		return s.Press(req.Keys...)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Calculator session not found", nil)
		return
	}

	dto := toSessionDTO(id, sess)
	dto.Closed = closed
	writeJSON(w, http.StatusOK, dto)
}

// CommitCalculator emits the displayed value to a list editor. A session in
// error or without a usable number stays open and nothing is emitted.
// POST /api/calculator/sessions/{id}/commit
func (h *Handler) CommitCalculator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CommitRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	var editor *reconcile.Editor
	if req.Category != "" {
		c, err := reconcile.ParseCategory(req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown category", err)
			return
		}
		editor = h.Orchestrator.Editor(c)
	}

	var value float64
	_, committed, ok := h.sessions.update(id, func(s calculator.Session) (calculator.Session, bool) {
		v, usable := s.Commit()
		value = v
		return s, usable
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Calculator session not found", nil)
		return
	}

	resp := CommitResponse{Committed: committed, Value: value}
	if committed && editor != nil {
		resp.Accepted = editor.AddValue(r.Context(), value)
		st := h.state()
		resp.State = &st
		h.logger.Debug("calculator value committed",
			zap.String("category", string(editor.Category())),
			zap.Float64("value", value),
			zap.Bool("accepted", resp.Accepted))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CloseCalculatorSession discards a session without committing.
// DELETE /api/calculator/sessions/{id}
func (h *Handler) CloseCalculatorSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Calculator session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
