// Package profile serves a user's library of stored soil profiles and the
// history of calculations run against them.
package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Seabed/internal/auth"
	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/soil"
	"Seabed/internal/repo"

	"github.com/gorilla/mux"
	"github.com/sgostarter/i/l"
)

type ProfileHandler struct {
	Repo     repo.Repository
	Profiles *repo.Profiles
	Settings anchor.Settings
	Logger   l.Wrapper
}

type CreateRequest struct {
	Name  string     `json:"name"`
	Table soil.Table `json:"table"`
}

type ProfileResponse struct {
	repo.SoilProfile
	Top    float64 `json:"top_m"`
	Bottom float64 `json:"bottom_m"`
}

// EvaluateRequest is a capacity request against a stored profile.
type EvaluateRequest struct {
	AnchorType string             `json:"anchor_type"`
	Geometry   map[string]float64 `json:"geometry"`
	H          float64            `json:"h_n"`
	V          float64            `json:"v_n"`
	Materials  capacity.Materials `json:"materials"`
	Lateral    lateral.Config     `json:"lateral"`
}

type EvaluateResponse struct {
	RunID  string          `json:"run_id"`
	Result capacity.Result `json:"result"`
}

func (h *ProfileHandler) logger() l.Wrapper {
	if h.Logger == nil {
		return l.NewNopLoggerWrapper()
	}
	return h.Logger
}

func status(err error) int {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrExists):
		return http.StatusConflict
	}
	return capacity.Status(err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "Profile name required", http.StatusBadRequest)
		return
	}

	rec, built, err := h.Profiles.Save(r.Context(), repo.SoilProfile{OwnerID: userID, Name: req.Name, Table: req.Table})
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	writeJSON(w, http.StatusCreated, ProfileResponse{SoilProfile: rec, Top: built.Top(), Bottom: built.Bottom()})
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := h.Profiles.List(r.Context(), userID)
	if err != nil {
		h.logger().WithFields(l.ErrorField(err)).Error("list profiles failed")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []repo.SoilProfile{}
	}
	writeJSON(w, http.StatusOK, list)
}

// owned loads a profile by the {id} route variable, hiding other users'
// profiles behind 404.
func (h *ProfileHandler) owned(w http.ResponseWriter, r *http.Request) (repo.SoilProfile, *soil.Profile, int, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return repo.SoilProfile{}, nil, 0, false
	}
	rec, built, err := h.Profiles.Get(r.Context(), mux.Vars(r)["id"])
	if err == nil && rec.OwnerID != userID {
		err = repo.ErrNotFound
	}
	if err != nil {
		http.Error(w, "Profile not found", status(err))
		return repo.SoilProfile{}, nil, 0, false
	}
	return rec, built, userID, true
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, built, _, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{SoilProfile: rec, Top: built.Top(), Bottom: built.Bottom()})
}

// Evaluate runs a capacity calculation on a stored profile and records it.
func (h *ProfileHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	rec, built, userID, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	a, err := capacity.ParseAnchorType(req.AnchorType)
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	g, err := capacity.NewGeometry(a, req.Geometry)
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	lat := req.Lateral
	if lat == (lateral.Config{}) {
		lat = h.Settings.Lateral
	}
	res, err := capacity.Evaluate(capacity.Input{
		Anchor:    a,
		Profile:   built,
		Geometry:  g,
		H:         req.H,
		V:         req.V,
		Materials: req.Materials.WithBase(h.Settings.Materials),
		Lateral:   lat,
	})
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}

	reqJSON, _ := json.Marshal(struct {
		ProfileID string `json:"profile_id"`
		EvaluateRequest
	}{rec.ID, req})
	resJSON, _ := json.Marshal(res)
	run, err := h.Repo.SaveRun(r.Context(), repo.DesignRun{
		OwnerID: userID,
		Kind:    "capacity/" + string(a),
		Request: reqJSON,
		Result:  resJSON,
	})
	if err != nil {
		h.logger().WithFields(l.StringField("profile", rec.ID), l.ErrorField(err)).Error("save run failed")
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{RunID: run.ID, Result: res})
}

func (h *ProfileHandler) Runs(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Repo.ListRuns(r.Context(), userID, limit)
	if err != nil {
		h.logger().WithFields(l.ErrorField(err)).Error("list runs failed")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []repo.DesignRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}
