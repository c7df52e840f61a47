/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. List names keep the
  Portuguese field names of the persisted record (notas, moedas, sangria,
  cofre) so a client can use the same vocabulary everywhere.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers and in the reconcile package, not in DTOs.
*/
package api

import (
	"github.com/warp/caixa/calculator"
	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// STATE
// =============================================================================

// StateDTO is the full reconciliation view.
type StateDTO struct {
	Lists   ListsDTO   `json:"lists"`
	Totals  TotalsDTO  `json:"totals"`
	Display DisplayDTO `json:"display"`
}

// ListsDTO holds the four lists.
type ListsDTO struct {
	Notas   []float64 `json:"notas"`
	Moedas  []float64 `json:"moedas"`
	Sangria []float64 `json:"sangria"`
	Cofre   []float64 `json:"cofre"`
}

// TotalsDTO holds the derived values as numbers.
type TotalsDTO struct {
	TotalNotas     float64 `json:"total_notas"`
	TotalMoedas    float64 `json:"total_moedas"`
	TotalSangria   float64 `json:"total_sangria"`
	TotalCofre     float64 `json:"total_cofre"`
	ValeMoeda      float64 `json:"vale_moeda"`
	Total          float64 `json:"total"`
	ResultadoFinal float64 `json:"resultado_final"`
	AjusteSugerido float64 `json:"ajuste_sugerido"`
}

// DisplayDTO holds the same values formatted as currency.
type DisplayDTO struct {
	TotalNotas     string `json:"total_notas"`
	TotalMoedas    string `json:"total_moedas"`
	TotalSangria   string `json:"total_sangria"`
	TotalCofre     string `json:"total_cofre"`
	ValeMoeda      string `json:"vale_moeda"`
	Total          string `json:"total"`
	ResultadoFinal string `json:"resultado_final"`
	AjusteSugerido string `json:"ajuste_sugerido"`
}

func toTotalsDTO(t reconcile.Totals) TotalsDTO {
	return TotalsDTO{
		TotalNotas:     t.TotalNotes,
		TotalMoedas:    t.TotalCoins,
		TotalSangria:   t.TotalWithdrawals,
		TotalCofre:     t.TotalSafe,
		ValeMoeda:      t.CashSubtotal,
		Total:          t.GrandTotal,
		ResultadoFinal: t.FinalResult,
		AjusteSugerido: t.SuggestedAdjustment,
	}
}

func toDisplayDTO(t reconcile.Totals, currency string) DisplayDTO {
	f := func(v float64) string { return reconcile.FormatAmount(v, currency) }
	return DisplayDTO{
		TotalNotas:     f(t.TotalNotes),
		TotalMoedas:    f(t.TotalCoins),
		TotalSangria:   f(t.TotalWithdrawals),
		TotalCofre:     f(t.TotalSafe),
		ValeMoeda:      f(t.CashSubtotal),
		Total:          f(t.GrandTotal),
		ResultadoFinal: f(t.FinalResult),
		AjusteSugerido: f(t.SuggestedAdjustment),
	}
}

func toStateDTO(s reconcile.Snapshot, currency string) StateDTO {
	st := s.State.Clone()
	return StateDTO{
		Lists: ListsDTO{
			Notas:   st.Notes,
			Moedas:  st.Coins,
			Sangria: st.Withdrawals,
			Cofre:   st.Safe,
		},
		Totals:  toTotalsDTO(s.Totals),
		Display: toDisplayDTO(s.Totals, currency),
	}
}

// =============================================================================
// LIST EDITING
// =============================================================================

// ReplaceListRequest replaces a whole list.
type ReplaceListRequest struct {
	Values []float64 `json:"values"`
}

// AddEntryRequest adds one entry. Value may be a JSON number or the raw
// text typed into the add form ("12,50").
type AddEntryRequest struct {
	Value any `json:"value"`
}

// AddEntryResponse reports whether the input was accepted.
type AddEntryResponse struct {
	Accepted bool     `json:"accepted"`
	State    StateDTO `json:"state"`
}

// =============================================================================
// CALCULATOR
// =============================================================================

// CalculatorSessionDTO is the visible state of a calculator overlay.
type CalculatorSessionDTO struct {
	ID         string `json:"id"`
	Display    string `json:"display"`
	Expression string `json:"expression"`
	Phase      string `json:"phase"`
	Error      bool   `json:"error"`
	Pending    string `json:"pending,omitempty"`
	Closed     bool   `json:"closed,omitempty"`
}

func toSessionDTO(id string, s calculator.Session) CalculatorSessionDTO {
	return CalculatorSessionDTO{
		ID:         id,
		Display:    s.Display(),
		Expression: s.Expression(),
		Phase:      s.Phase().String(),
		Error:      s.Failed(),
		Pending:    s.Pending().String(),
	}
}

// KeysRequest feeds key presses to a session.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// CommitRequest sends the displayed value to a list. Without a category the
// value is only returned.
type CommitRequest struct {
	Category string `json:"category,omitempty"`
}

// CommitResponse is the result of a commit.
type CommitResponse struct {
	Committed bool      `json:"committed"`
	Value     float64   `json:"value"`
	Accepted  bool      `json:"accepted"`
	State     *StateDTO `json:"state,omitempty"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a demo reconciliation.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
