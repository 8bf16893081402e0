package loads

import (
	"encoding/json"
	"net/http"

	"Seabed/internal/calc/soil"
)

// Handler serves load factoring and transfer. Chain is used when a
// transfer request gives none.
type Handler struct {
	Chain Chain
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type TransferRequest struct {
	Soil    soil.Table `json:"soil"`
	Zlug    float64    `json:"zlug_m"`
	Mudline Load       `json:"mudline"`
	Chain   Chain      `json:"chain"`
}

// Transfer carries a mudline load down the chain to the padeye.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := req.Soil.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if req.Chain == (Chain{}) {
		req.Chain = h.Chain
	}
	res, err := Transfer(p, req.Zlug, req.Mudline, req.Chain)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
