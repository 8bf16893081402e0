package anchor

import (
	"encoding/json"
	"net/http"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"

	"github.com/sgostarter/i/l"
)

type Request struct {
	Design map[string]any `json:"design"`
	MinFS  loads.Factors  `json:"min_fs"`
}

type Response struct {
	Anchor   capacity.AnchorType `json:"anchor_type"`
	Geometry map[string]float64  `json:"geometry"`
	Assessment
}

type Handler struct {
	Settings Settings
	Logger   l.Wrapper
}

// Calc evaluates a design dictionary at its current geometry.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	a, err := FromDesign(req.Design)
	if err != nil {
		http.Error(w, err.Error(), capacity.Status(err))
		return
	}
	a.Logger = h.Logger
	h.Settings.Apply(a)
	as, err := a.FS(h.Settings.MinFS(req.MinFS))
	if err != nil {
		http.Error(w, err.Error(), capacity.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Anchor: a.Type, Geometry: a.Geometry.Map(a.Type), Assessment: as})
}
