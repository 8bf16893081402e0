package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/soil"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newLateralCmd(opts *options) *cobra.Command {
	var (
		pile  lateral.Input
		every int
	)
	cmd := &cobra.Command{
		Use:   "lateral <soil.yaml>",
		Short: "Run the p-y beam analysis of a laterally loaded pile",
		Long: `Solve the deflected shape of a tubular pile. The soil file is YAML:

  soil_type: clay
  rows:
    - {depth_m: 1, su_kpa: 10, gamma_kn_m3: 8}
    - {depth_m: 25, su_kpa: 50, gamma_kn_m3: 9}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.settings()
			if err != nil {
				return err
			}
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var table soil.Table
			if err := yaml.Unmarshal(b, &table); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			p, err := table.Build()
			if err != nil {
				return err
			}
			if pile.E <= 0 {
				pile.E = eng.Materials.SteelModulus
			}
			if pile.Fy <= 0 {
				pile.Fy = eng.Materials.SteelYield
			}
			if pile.Thickness <= 0 {
				pile.Thickness = eng.Materials.Wall(pile.Diameter)
			}

			sol, solveErr := lateral.Solve(p, pile, eng.Lateral)
			if solveErr != nil && !errors.Is(solveErr, lateral.ErrNoConvergence) {
				return solveErr
			}

			out := cmd.OutOrStdout()
			section(out, "LATERAL RESPONSE")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Head deflection:\t%.4f m\n", sol.HeadDeflection)
			fmt.Fprintf(w, "  Max moment:\t%.1f kNm at %.2f m\n", sol.MaxMoment/1e3, sol.MaxMomentDepth)
			fmt.Fprintf(w, "  Plastic moment:\t%.1f kNm\n", sol.PlasticMoment/1e3)
			fmt.Fprintf(w, "  Plastic reached:\t%t\n", sol.PlasticMomentReached)
			fmt.Fprintf(w, "  Iterations:\t%d (converged %t)\n", sol.Iterations, sol.Converged)
			w.Flush()

			if every > 0 {
				section(out, "PROFILE")
				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprint(w, "  z (m)\ty (mm)\tM (kNm)\tV (kN)\tp (kN/m)\n")
				for i := 0; i < len(sol.Depth); i += every {
					fmt.Fprintf(w, "  %.2f\t%.2f\t%.1f\t%.1f\t%.1f\n", sol.Depth[i], sol.Deflection[i]*1e3,
						sol.Moment[i]/1e3, sol.Shear[i]/1e3, sol.SoilReaction[i]/1e3)
				}
				w.Flush()
			}
			return solveErr
		},
	}
	f := cmd.Flags()
	f.Float64Var(&pile.Length, "length", 0, "Embedded length (m) [required]")
	f.Float64Var(&pile.Diameter, "diameter", 0, "Outer diameter (m) [required]")
	f.Float64Var(&pile.Thickness, "thickness", 0, "Wall thickness (m), default from the diameter")
	f.Float64Var(&pile.Zlug, "zlug", 0, "Load point depth below mudline (m), negative above")
	f.Float64Var(&pile.H, "h", 0, "Lateral load (N)")
	f.Float64Var(&pile.V, "v", 0, "Axial tension (N)")
	f.IntVar(&every, "every", 0, "Print every n-th station, 0 for none")
	cmd.MarkFlagRequired("length")
	cmd.MarkFlagRequired("diameter")
	return cmd
}
