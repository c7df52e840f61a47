/*
scenarios.go - Demo reconciliations for testing and demonstrations

AVAILABLE SCENARIOS:

	fechamento-simples:  R$30 counted, R$5 withdrawn, R$15 to the safe
	turno-completo:      a busy shift with change, two withdrawals and a safe drop
	vazio:               nothing counted yet

HOW SCENARIOS WORK:
  The four lists are replaced in one mutation (ReplaceAll), so the load is
  persisted as a single record like any other edit.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "turno-completo"}

NOTE:

	Loading a scenario overwrites the current count. Only use in demos.
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	State reconcile.State
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "fechamento-simples",
			Name:        "Fechamento simples",
			Description: "R$30 in notes, R$5 withdrawn, R$15 to the safe: adjustment R$10",
		},
		State: reconcile.State{
			Notes:       []float64{10, 20},
			Withdrawals: []float64{5},
			Safe:        []float64{15},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "turno-completo",
			Name:        "Turno completo",
			Description: "Full shift with coins, two withdrawals and a safe drop",
		},
		State: reconcile.State{
			Notes:       []float64{100, 50, 50, 20, 20, 10, 5, 2, 2},
			Coins:       []float64{1, 1, 0.5, 0.25, 0.25, 0.1, 0.05},
			Withdrawals: []float64{200, 150},
			Safe:        []float64{300},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "vazio",
			Name:        "Vazio",
			Description: "Start of shift, nothing counted",
		},
		State: reconcile.EmptyState(),
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

func (h *Handler) setScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the last loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	id := h.currentScenario
	h.mu.Unlock()

	if s, ok := findScenario(id); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the lists with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	snap, err := h.Orchestrator.ReplaceAll(r.Context(), s.State)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.setScenario(s.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": s.ID,
		"state":    toStateDTO(snap, h.Currency),
	})
}
