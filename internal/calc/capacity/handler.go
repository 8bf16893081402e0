package capacity

import (
	"encoding/json"
	"errors"
	"net/http"

	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/soil"
)

type Request struct {
	AnchorType string             `json:"anchor_type"`
	Soil       soil.Table         `json:"soil"`
	Geometry   map[string]float64 `json:"geometry"`
	H          float64            `json:"h_n"`
	V          float64            `json:"v_n"`
	Materials  Materials          `json:"materials"`
	Lateral    lateral.Config     `json:"lateral"`
}

// Input converts the request into a validated evaluation input.
func (req Request) Input() (Input, error) {
	a, err := ParseAnchorType(req.AnchorType)
	if err != nil {
		return Input{}, err
	}
	p, err := req.Soil.Build()
	if err != nil {
		return Input{}, err
	}
	g, err := NewGeometry(a, req.Geometry)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Anchor:    a,
		Profile:   p,
		Geometry:  g,
		H:         req.H,
		V:         req.V,
		Materials: req.Materials,
		Lateral:   req.Lateral,
	}, nil
}

// Status maps calculation errors to HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrGeometry),
		errors.Is(err, soil.ErrProfile), errors.Is(err, lateral.ErrGeometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Handler serves capacity requests. Materials and Lateral fill what a
// request leaves unset.
type Handler struct {
	Materials Materials
	Lateral   lateral.Config
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	in, err := req.Input()
	if err != nil {
		http.Error(w, err.Error(), Status(err))
		return
	}
	in.Materials = in.Materials.WithBase(h.Materials)
	if in.Lateral == (lateral.Config{}) {
		in.Lateral = h.Lateral
	}
	res, err := Evaluate(in)
	if err != nil {
		http.Error(w, err.Error(), Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Combinations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Combinations())
}
