package report

import (
	"bytes"
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

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sh, err := Prepare(r.Context(), input, h.Settings, h.Logger)
	if err != nil {
		http.Error(w, err.Error(), capacity.Status(err))
		return
	}

	var buf bytes.Buffer
	if err := Generate(&buf, sh); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"anchor-report.pdf\"")
	w.Write(buf.Bytes())
}
