package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
)

const rule = "---------------------------------------------------------------"

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func ratio(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

func printGeometry(out io.Writer, a *anchor.Anchor) {
	section(out, fmt.Sprintf("ANCHOR: %s in %s", a.Type, a.Profile.Type()))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	geom := a.Geometry.Map(a.Type)
	for _, k := range capacity.Keys(a.Type) {
		fmt.Fprintf(w, "  %s:\t%.3f\n", k, geom[k])
	}
	w.Flush()
}

func printAssessment(out io.Writer, as anchor.Assessment) {
	section(out, "LOADS (kN)")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  \tH\tV\tangle (deg)\n")
	fmt.Fprintf(w, "  Mudline:\t%.1f\t%.1f\t%.2f\n", as.Lug.Mudline.H/1e3, as.Lug.Mudline.V/1e3, as.Lug.MudlineAngle)
	fmt.Fprintf(w, "  Padeye:\t%.1f\t%.1f\t%.2f\n", as.Lug.Padeye.H/1e3, as.Lug.Padeye.V/1e3, as.Lug.PadeyeAngle)
	fmt.Fprintf(w, "  Design:\t%.1f\t%.1f\t%.2f\n", as.Design.H/1e3, as.Design.V/1e3, as.Design.Angle())
	w.Flush()

	res := as.Capacity
	section(out, "CAPACITY")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Hmax:\t%.1f kN\n", res.HorizontalMax/1e3)
	fmt.Fprintf(w, "  Vmax:\t%.1f kN\n", res.VerticalMax/1e3)
	fmt.Fprintf(w, "  Weight:\t%.1f kN\n", res.Weight/1e3)
	fmt.Fprintf(w, "  Unity H:\t%s\n", ratio(res.UnityHorizontal.Float()))
	fmt.Fprintf(w, "  Unity V:\t%s\n", ratio(res.UnityVertical.Float()))
	if res.UnityCombined != nil {
		fmt.Fprintf(w, "  Unity combined:\t%s\n", ratio(res.UnityCombined.Float()))
	}
	fmt.Fprintf(w, "  FS Ha:\t%s\n", ratio(as.FS.Ha.Float()))
	fmt.Fprintf(w, "  FS Va:\t%s\n", ratio(as.FS.Va.Float()))
	w.Flush()

	if len(res.Diagnostics) > 0 {
		section(out, "DIAGNOSTICS")
		names := make([]string, 0, len(res.Diagnostics))
		for k := range res.Diagnostics {
			names = append(names, k)
		}
		sort.Strings(names)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, k := range names {
			fmt.Fprintf(w, "  %s:\t%.4g\n", k, res.Diagnostics[k])
		}
		w.Flush()
	}
	if res.Notes != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, res.Notes)
	}
}
