package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/sizing"

	"github.com/phpdave11/gofpdf"
	"github.com/sgostarter/i/l"
)

type Input struct {
	Project string         `json:"project"`
	Author  string         `json:"author"`
	Title   string         `json:"title"`
	Notes   string         `json:"notes"`
	Design  map[string]any `json:"design"`
	MinFS   loads.Factors  `json:"min_fs"`
	// Size runs the geometry search before reporting.
	Size bool `json:"size"`
}

// Sheet is everything a report prints.
type Sheet struct {
	Input      Input
	Anchor     *anchor.Anchor
	Start      map[string]float64
	Assessment anchor.Assessment
	Sizing     *sizing.Result
	Date       time.Time
}

// Prepare evaluates the design under the given engineering settings,
// optionally sizing it first.
func Prepare(ctx context.Context, in Input, s anchor.Settings, logger l.Wrapper) (Sheet, error) {
	a, err := anchor.FromDesign(in.Design)
	if err != nil {
		return Sheet{}, err
	}
	a.Logger = logger
	s.Apply(a)
	in.MinFS = s.MinFS(in.MinFS)
	sh := Sheet{Input: in, Anchor: a, Start: a.Geometry.Map(a.Type), Date: time.Now()}
	if in.Size {
		res, err := a.Size(ctx, s.Sizing(anchor.SizeConfig{Targets: in.MinFS}))
		if err != nil && !errors.Is(err, sizing.ErrNoConvergence) {
			return Sheet{}, err
		}
		a.Geometry = res.Geometry
		sh.Sizing = &res
	}
	if sh.Assessment, err = a.FS(in.MinFS); err != nil {
		return Sheet{}, err
	}
	return sh, nil
}

func num(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func kN(v float64) string { return num(v / 1e3) }

// Generate renders the sheet as an A4 PDF.
func Generate(w io.Writer, sh Sheet) error {
	in := sh.Input
	if in.Title == "" {
		in.Title = "Anchor Capacity Report"
	}
	a := sh.Anchor
	as := sh.Assessment

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", sh.Date.Format("2006-01-02")))
	pdf.Ln(10)

	heading := func(s string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, s)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(cells ...string) {
		width := 180.0 / float64(len(cells))
		for _, c := range cells {
			pdf.CellFormat(width, 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	heading(fmt.Sprintf("Anchor: %s in %s", a.Type, a.Profile.Type()))
	keys := capacity.Keys(a.Type)
	geom := a.Geometry.Map(a.Type)
	row(append([]string{"Geometry [m]"}, keys...)...)
	if sh.Sizing != nil {
		start := []string{"Start"}
		for _, k := range keys {
			start = append(start, num(sh.Start[k]))
		}
		row(start...)
	}
	final := []string{"Final"}
	for _, k := range keys {
		final = append(final, num(geom[k]))
	}
	row(final...)
	if sh.Sizing != nil {
		state := "converged"
		if !sh.Sizing.Converged {
			state = "not converged, best geometry shown"
		}
		pdf.Cell(0, 6, fmt.Sprintf("Sizing: %d iterations, %s", sh.Sizing.Iterations, state))
		pdf.Ln(6)
	}

	heading("Soil profile")
	row("Depth [m]", "Su [kPa]", "Gamma [kN/m3]", "Phi [deg]", "UCS [MPa]")
	for _, r := range a.Profile.Rows() {
		row(num(r.Depth), num(r.Su), num(r.Gamma), num(r.Phi), num(r.UCS))
	}

	heading("Loads [kN]")
	row("", "H", "V", "Angle [deg]")
	row("Mudline", kN(as.Lug.Mudline.H), kN(as.Lug.Mudline.V), num(as.Lug.MudlineAngle))
	row("Padeye", kN(as.Lug.Padeye.H), kN(as.Lug.Padeye.V), num(as.Lug.PadeyeAngle))
	row("Design", kN(as.Design.H), kN(as.Design.V), num(as.Design.Angle()))

	heading("Capacity")
	res := as.Capacity
	row("Hmax [kN]", kN(res.HorizontalMax), "Vmax [kN]", kN(res.VerticalMax))
	row("Unity H", num(res.UnityHorizontal.Float()), "Unity V", num(res.UnityVertical.Float()))
	if res.UnityCombined != nil {
		row("Unity combined", num(res.UnityCombined.Float()), "Weight [kN]", kN(res.Weight))
	} else {
		row("Weight [kN]", kN(res.Weight), "", "")
	}
	row("FS Ha", num(as.FS.Ha.Float()), "FS Va", num(as.FS.Va.Float()))
	row("Target Ha", num(in.MinFS.Ha), "Target Va", num(in.MinFS.Va))

	if len(res.Diagnostics) > 0 {
		heading("Diagnostics")
		names := make([]string, 0, len(res.Diagnostics))
		for k := range res.Diagnostics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			row(k, num(res.Diagnostics[k]))
		}
	}

	notes := res.Notes
	if in.Notes != "" {
		notes = in.Notes + "\n" + notes
	}
	if notes != "" {
		heading("Notes")
		pdf.MultiCell(0, 6, notes, "", "L", false)
	}
	return pdf.Output(w)
}
