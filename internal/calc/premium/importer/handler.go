package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"Seabed/internal/calc/soil"
)

type Handler struct{}

type SoilImportResult struct {
	Count  int        `json:"count"`
	Table  soil.Table `json:"table"`
	Top    float64    `json:"top_m"`
	Bottom float64    `json:"bottom_m"`
}

// Soil accepts a multipart workbook under "file" and an optional
// "soil_type" form value, and returns the validated profile table.
func (h *Handler) Soil(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := SoilProfile(file, r.FormValue("soil_type"))
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	p, err := table.Build()
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SoilImportResult{
		Count:  len(table.Rows),
		Table:  table,
		Top:    p.Top(),
		Bottom: p.Bottom(),
	})
}

func status(err error) int {
	if errors.Is(err, soil.ErrProfile) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
