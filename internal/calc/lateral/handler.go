package lateral

import (
	"encoding/json"
	"errors"
	"net/http"

	"Seabed/internal/calc/soil"
)

type Request struct {
	Soil   soil.Table `json:"soil"`
	Pile   Input      `json:"pile"`
	Config Config     `json:"config"`
}

type Response struct {
	Solution
	Notes string `json:"notes"`
}

// Handler serves lateral solves. Config fills an unset request config, and
// E and Fy an unset pile modulus and yield.
type Handler struct {
	Config Config
	E, Fy  float64
}

// Calc returns the deflected shape. A solution that ran out of iterations
// is still returned with converged=false.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := req.Soil.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if req.Config == (Config{}) {
		req.Config = h.Config
	}
	if req.Pile.E <= 0 {
		req.Pile.E = h.E
	}
	if req.Pile.Fy <= 0 {
		req.Pile.Fy = h.Fy
	}
	sol, err := Solve(p, req.Pile, req.Config)
	notes := "Converged."
	switch {
	case errors.Is(err, ErrNoConvergence):
		notes = err.Error()
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if sol.PlasticMomentReached {
		notes += " Plastic moment reached; bending moment capped at Mp."
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Solution: sol, Notes: notes})
}
