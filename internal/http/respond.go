package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fingenius/internal/core"
)

// Amounts cross the JSON boundary as decimal numbers; cents stay internal.

type expensePayload struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        core.Date `json:"date"`
}

type incomePayload struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        core.Date `json:"date"`
}

type goalPayload struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	TargetDate    core.Date `json:"target_date"`
	Description   string    `json:"description"`
}

type investmentPayload struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	PurchaseDate core.Date `json:"purchase_date"`
	CurrentValue float64   `json:"current_value"`
	Notes        string    `json:"notes"`
}

func toExpensePayload(e core.Expense) expensePayload {
	return expensePayload{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.Float(),
		Category:    e.Category,
		Date:        e.Date,
	}
}

func toIncomePayload(in core.Income) incomePayload {
	return incomePayload{
		ID:          in.ID,
		Description: in.Description,
		Amount:      in.Amount.Float(),
		Category:    in.Category,
		Date:        in.Date,
	}
}

func toGoalPayload(g core.Goal) goalPayload {
	return goalPayload{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.Float(),
		CurrentAmount: g.CurrentAmount.Float(),
		TargetDate:    g.TargetDate,
		Description:   g.Description,
	}
}

func toInvestmentPayload(inv core.Investment) investmentPayload {
	return investmentPayload{
		ID:           inv.ID,
		Name:         inv.Name,
		Type:         inv.Type,
		Amount:       inv.Amount.Float(),
		PurchaseDate: inv.PurchaseDate,
		CurrentValue: inv.CurrentValue.Float(),
		Notes:        inv.Notes,
	}
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}

// jsonError writes the standard {"error": msg} body.
func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// jsonRecord acknowledges a write, wrapping the stored record:
// {"success": true, "<key>": {...}}. Reads return bare arrays and maps;
// only writes carry the success envelope.
func jsonRecord(w http.ResponseWriter, key string, record any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, key: record})
}

// jsonDeleted acknowledges a delete: {"success": true}.
func jsonDeleted(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
