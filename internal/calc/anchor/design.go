package anchor

import (
	"fmt"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/soil"

	"github.com/spf13/cast"
)

// FromDesign builds an anchor from a loose design dictionary:
//
//	type:            anchor type name
//	design:          geometry key to value
//	soil_type:       clay, sand, rock or weak_rock
//	soil_properties: {"profile": [[z, ...], ...]} with columns
//	                 clay (z, Su, gamma), sand (z, phi, gamma, Dr[, delta]),
//	                 rock (z, UCS, Em)
//	loads:           {"Hm": N, "Vm": N} at the mudline
func FromDesign(dd map[string]any) (*Anchor, error) {
	typeName, err := cast.ToStringE(dd["type"])
	if err != nil {
		return nil, fmt.Errorf("%w: type: %v", capacity.ErrUnsupported, err)
	}
	at, err := capacity.ParseAnchorType(typeName)
	if err != nil {
		return nil, err
	}

	design, err := cast.ToStringMapE(dd["design"])
	if err != nil {
		return nil, fmt.Errorf("%w: design: %v", capacity.ErrGeometry, err)
	}
	values := make(map[string]float64, len(design))
	for k, v := range design {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", capacity.ErrGeometry, k, err)
		}
		values[k] = f
	}
	g, err := capacity.NewGeometry(at, values)
	if err != nil {
		return nil, err
	}

	st, err := soil.ParseType(cast.ToString(dd["soil_type"]))
	if err != nil {
		return nil, err
	}
	props, err := cast.ToStringMapE(dd["soil_properties"])
	if err != nil {
		return nil, fmt.Errorf("%w: soil_properties: %v", soil.ErrProfile, err)
	}
	table, err := toRows(props["profile"])
	if err != nil {
		return nil, err
	}
	rows, err := columns(st, table)
	if err != nil {
		return nil, err
	}
	p, err := soil.NewProfile(st, rows)
	if err != nil {
		return nil, err
	}

	a := &Anchor{Type: at, Profile: p, Geometry: g}
	if l, ok := dd["loads"]; ok {
		lm := cast.ToStringMap(l)
		a.Mudline.H = cast.ToFloat64(lm["Hm"])
		a.Mudline.V = cast.ToFloat64(lm["Vm"])
	}
	return a, nil
}

func toRows(v any) ([][]float64, error) {
	if rows, ok := v.([][]float64); ok {
		return rows, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("%w: profile: %v", soil.ErrProfile, err)
	}
	out := make([][]float64, 0, len(items))
	for i, item := range items {
		var row []float64
		switch r := item.(type) {
		case []float64:
			row = r
		case []any:
			for _, c := range r {
				f, err := cast.ToFloat64E(c)
				if err != nil {
					return nil, fmt.Errorf("%w: row %d: %v", soil.ErrProfile, i, err)
				}
				row = append(row, f)
			}
		default:
			return nil, fmt.Errorf("%w: row %d is %T", soil.ErrProfile, i, item)
		}
		out = append(out, row)
	}
	return out, nil
}

func columns(st soil.Type, table [][]float64) ([]soil.Row, error) {
	need := 3
	if st == soil.Sand {
		need = 4
	}
	rows := make([]soil.Row, 0, len(table))
	for i, r := range table {
		if len(r) < need {
			return nil, fmt.Errorf("%w: row %d has %d columns, %s needs %d", soil.ErrProfile, i, len(r), st, need)
		}
		row := soil.Row{Depth: r[0]}
		switch st {
		case soil.Clay:
			row.Su, row.Gamma = r[1], r[2]
		case soil.Sand:
			row.Phi, row.Gamma, row.Dr = r[1], r[2], r[3]
			if len(r) > 4 {
				row.Delta = r[4]
			}
		default:
			row.UCS, row.Em = r[1], r[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
