package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"Seabed/internal/calc/soil"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var ErrSheet = errors.New("importer: bad sheet")

// column names accepted in the header row, lower case
var headers = map[string]string{
	"z":           "depth",
	"depth":       "depth",
	"depth_m":     "depth",
	"su":          "su",
	"su_kpa":      "su",
	"gamma":       "gamma",
	"gamma_kn_m3": "gamma",
	"phi":         "phi",
	"phi_deg":     "phi",
	"dr":          "dr",
	"dr_pct":      "dr",
	"delta":       "delta",
	"delta_deg":   "delta",
	"ucs":         "ucs",
	"ucs_mpa":     "ucs",
	"em":          "em",
	"em_mpa":      "em",
}

// SoilProfile reads a layered profile from the first sheet of a workbook.
// The first row names the columns; blank rows are skipped. When soilType is
// empty the sheet name is tried as a soil type.
func SoilProfile(r io.Reader, soilType string) (soil.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return soil.Table{}, fmt.Errorf("%w: %v", ErrSheet, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if soilType == "" {
		soilType = sheet
	}
	st, err := soil.ParseType(strings.ToLower(strings.TrimSpace(soilType)))
	if err != nil {
		return soil.Table{}, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return soil.Table{}, fmt.Errorf("%w: %v", ErrSheet, err)
	}
	if len(rows) < 2 {
		return soil.Table{}, fmt.Errorf("%w: %q has no data rows", ErrSheet, sheet)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		if name, ok := headers[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[name] = i
		}
	}
	if _, ok := cols["depth"]; !ok {
		return soil.Table{}, fmt.Errorf("%w: no depth column", ErrSheet)
	}

	table := soil.Table{SoilType: st}
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var (
			r    soil.Row
			errs []string
		)
		get := func(name string) float64 {
			i, ok := cols[name]
			if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
				return 0
			}
			v, err := cast.ToFloat64E(strings.TrimSpace(row[i]))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q", name, row[i]))
			}
			return v
		}
		r.Depth = get("depth")
		r.Su = get("su")
		r.Gamma = get("gamma")
		r.Phi = get("phi")
		r.Dr = get("dr")
		r.Delta = get("delta")
		r.UCS = get("ucs")
		r.Em = get("em")
		if len(errs) > 0 {
			return soil.Table{}, fmt.Errorf("%w: row %d: %s", ErrSheet, n+2, strings.Join(errs, ", "))
		}
		table.Rows = append(table.Rows, r)
	}
	return table, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
