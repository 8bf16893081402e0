package autodesign

import (
	"encoding/json"
	"net/http"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"

	"github.com/sgostarter/i/l"
)

type Handler struct {
	Settings anchor.Settings
	Logger   l.Wrapper
}

func (h *Handler) Anchor(w http.ResponseWriter, r *http.Request) {
	var input AnchorAutoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Anchor(r.Context(), input, h.Settings, h.Logger)
	if err != nil {
		http.Error(w, err.Error(), capacity.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
