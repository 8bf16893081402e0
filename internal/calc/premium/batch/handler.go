package batch

import (
	"encoding/json"
	"net/http"

	"Seabed/internal/calc/anchor"

	"github.com/sgostarter/i/l"
)

type Handler struct {
	Settings anchor.Settings
	Logger   l.Wrapper
}

func (h *Handler) Anchors(w http.ResponseWriter, r *http.Request) {
	var input AnchorBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := CalculateAnchors(r.Context(), input, h.Settings, h.Logger)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
