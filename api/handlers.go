/*
handlers.go - HTTP API handlers for the reconciliation engine

PURPOSE:
  Exposes the orchestrator, the four list editors and calculator sessions
  via REST API. Handles HTTP request/response and JSON serialization and
  delegates everything else to the reconcile and calculator packages.

ENDPOINTS:
  State:
    GET    /api/state                               Lists, totals, currency display
    GET    /api/totals                              Totals only
    POST   /api/reset                               Clear all four lists

  Lists:
    PUT    /api/lists/{category}                    Replace a whole list
    POST   /api/lists/{category}/entries            Add one entry
    DELETE /api/lists/{category}/entries/{index}    Remove one entry

  Calculator:
    POST   /api/calculator/sessions                 Open an overlay
    GET    /api/calculator/sessions/{id}            Current display
    POST   /api/calculator/sessions/{id}/keys       Press keys
    POST   /api/calculator/sessions/{id}/commit     Use the displayed value
    DELETE /api/calculator/sessions/{id}            Close without committing

REJECTED INPUT:
  An add with a non-numeric or non-positive value is not an HTTP error.
  The response is 200 with accepted=false and the unchanged state, the
  same silent rejection the add form shows.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, unknown category, invalid list values, totals
         out of range
  - 404: Unknown calculator session
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - calculator.go: Calculator session handlers
  - scenarios.go: Demo reconciliations
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Orchestrator *reconcile.Orchestrator
	Currency     string

	logger   *zap.Logger
	sessions *sessionStore

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler over the given orchestrator.
func NewHandler(o *reconcile.Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Orchestrator: o,
		Currency:     reconcile.DefaultCurrency,
		logger:       logger,
		sessions:     newSessionStore(),
	}
}

func (h *Handler) state() StateDTO {
	return toStateDTO(h.Orchestrator.Snapshot(), h.Currency)
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the lists, totals and their currency display.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

// GetTotals returns only the derived values.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTotalsDTO(h.Orchestrator.Totals()))
}

// ResetAll clears the four lists.
// POST /api/reset
func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	snap := h.Orchestrator.ResetAll(r.Context())
	h.setScenario("")
	h.logger.Info("reconciliation reset")
	writeJSON(w, http.StatusOK, toStateDTO(snap, h.Currency))
}

// =============================================================================
// LIST HANDLERS
// =============================================================================

// ReplaceList swaps a whole list.
// PUT /api/lists/{category}
func (h *Handler) ReplaceList(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	var req ReplaceListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap, err := h.Orchestrator.Replace(r.Context(), category, req.Values)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(snap, h.Currency))
}

// AddEntry appends one value through the list editor.
// POST /api/lists/{category}/entries
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	editor := h.Orchestrator.Editor(category)
	var accepted bool
	switch v := req.Value.(type) {
	case string:
		accepted = editor.Add(r.Context(), v)
	case float64:
		accepted = editor.AddValue(r.Context(), v)
	}

	writeJSON(w, http.StatusOK, AddEntryResponse{Accepted: accepted, State: h.state()})
}

// RemoveEntry deletes the entry at an index. An index past the end is a no-op.
// DELETE /api/lists/{category}/entries/{index}
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid index", err)
		return
	}

	h.Orchestrator.Editor(category).Remove(r.Context(), index)
	writeJSON(w, http.StatusOK, h.state())
}

func (h *Handler) category(w http.ResponseWriter, r *http.Request) (reconcile.Category, bool) {
	c, err := reconcile.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown category", err)
		return "", false
	}
	return c, true
}

// =============================================================================
// HELPERS
// =============================================================================

// writeJSON encodes data before writing the header, so a value JSON cannot
// represent (NaN, ±Inf) becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		buf.Reset()
		json.NewEncoder(&buf).Encode(ErrorResponse{Error: "Failed to encode response", Details: err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps reconcile errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconcile.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "Unknown category", err)
	case errors.Is(err, reconcile.ErrTotalOverflow):
		writeError(w, http.StatusBadRequest, "Total out of range", err)
	case reconcile.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid values", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
