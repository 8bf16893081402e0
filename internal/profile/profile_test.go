package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Seabed/internal/auth"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/soil"
	"Seabed/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func router(h *ProfileHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/profiles", h.Create).Methods("POST")
	r.HandleFunc("/profiles", h.List).Methods("GET")
	r.HandleFunc("/profiles/{id}", h.Get).Methods("GET")
	r.HandleFunc("/profiles/{id}/evaluate", h.Evaluate).Methods("POST")
	r.HandleFunc("/runs", h.Runs).Methods("GET")
	return r
}

func do(t *testing.T, r http.Handler, user int, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != 0 {
		req = req.WithContext(auth.WithUser(req.Context(), user, "u"))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func clay() soil.Table {
	return soil.Table{SoilType: soil.Clay, Rows: []soil.Row{
		{Depth: 1, Su: 10, Gamma: 8.0},
		{Depth: 5, Su: 15, Gamma: 8.5},
		{Depth: 10, Su: 25, Gamma: 8.5},
		{Depth: 25, Su: 50, Gamma: 9.0},
	}}
}

func TestProfileLibrary(t *testing.T) {
	store := repo.NewMemory()
	h := &ProfileHandler{Repo: store, Profiles: repo.NewProfiles(store, nil)}
	r := router(h)

	rec := do(t, r, 1, "POST", "/profiles", CreateRequest{Name: "site A", Table: clay()})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 25.0, created.Bottom)

	assert.Equal(t, http.StatusConflict, do(t, r, 1, "POST", "/profiles", CreateRequest{Name: "site A", Table: clay()}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, 1, "POST", "/profiles", CreateRequest{Table: clay()}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, r, 1, "POST", "/profiles", CreateRequest{Name: "empty", Table: soil.Table{SoilType: soil.Clay}}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, 0, "GET", "/profiles", nil).Code)

	rec = do(t, r, 1, "GET", "/profiles", nil)
	var list []repo.SoilProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, do(t, r, 1, "GET", "/profiles/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, 2, "GET", "/profiles/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, 1, "GET", "/profiles/nope", nil).Code)
}

func TestEvaluateStoredProfile(t *testing.T) {
	store := repo.NewMemory()
	h := &ProfileHandler{Repo: store, Profiles: repo.NewProfiles(store, nil)}
	r := router(h)

	rec := do(t, r, 1, "POST", "/profiles", CreateRequest{Name: "site A", Table: clay()})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(t, r, 1, "POST", "/profiles/"+created.ID+"/evaluate", EvaluateRequest{
		AnchorType: "suction_pile",
		Geometry:   map[string]float64{"L": 15, "D": 2, "zlug": 9.32},
		H:          4e6,
		V:          2e6,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, capacity.SuctionPile, out.Result.Anchor)
	assert.Greater(t, out.Result.HorizontalMax, 0.0)

	rec = do(t, r, 1, "POST", "/profiles/"+created.ID+"/evaluate", EvaluateRequest{
		AnchorType: "suction_pile",
		Geometry:   map[string]float64{"A": 4},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, r, 1, "GET", "/runs", nil)
	var runs []repo.DesignRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "capacity/suction_pile", runs[0].Kind)
}
