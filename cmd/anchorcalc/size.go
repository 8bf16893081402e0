package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/sizing"

	"github.com/spf13/cobra"
)

func newSizeCmd(opts *options) *cobra.Command {
	var (
		maxIter int
		fixZlug bool
		history bool
	)
	cmd := &cobra.Command{
		Use:   "size <design.yaml>",
		Short: "Size the geometry until the safety factors land in the target band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, eng, err := opts.loadAnchor(args[0])
			if err != nil {
				return err
			}
			targets := opts.targets(eng)
			res, err := a.Size(cmd.Context(), anchor.SizeConfig{
				Targets:       targets,
				Overshoot:     eng.Overshoot,
				FixZlug:       fixZlug,
				MaxIterations: maxIter,
			})
			converged := err == nil
			if err != nil && !errors.Is(err, sizing.ErrNoConvergence) {
				return err
			}

			out := cmd.OutOrStdout()
			if history {
				section(out, "ITERATIONS")
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				keys := capacity.Keys(a.Type)
				fmt.Fprint(w, "  #")
				for _, k := range keys {
					fmt.Fprintf(w, "\t%s", k)
				}
				fmt.Fprint(w, "\tFS Ha\tFS Va\n")
				for _, st := range res.History {
					fmt.Fprintf(w, "  %d", st.Iteration)
					g := st.Geometry.Map(a.Type)
					for _, k := range keys {
						fmt.Fprintf(w, "\t%.3f", g[k])
					}
					fmt.Fprintf(w, "\t%s\t%s\n", ratio(st.FS.Ha.Float()), ratio(st.FS.Va.Float()))
				}
				w.Flush()
			}

			a.Geometry = res.Geometry
			as, err := a.FS(targets)
			if err != nil {
				return err
			}
			printGeometry(out, a)
			printAssessment(out, as)
			fmt.Fprintln(out)
			if converged {
				fmt.Fprintf(out, "Converged in %d iterations.\n", res.Iterations)
				return nil
			}
			fmt.Fprintf(out, "Not converged after %d iterations; best geometry shown.\n", res.Iterations)
			return sizing.ErrNoConvergence
		},
	}
	cmd.Flags().IntVar(&maxIter, "max-iter", 0, "Iteration budget (default 100)")
	cmd.Flags().BoolVar(&fixZlug, "fix-zlug", false, "Hold the padeye depth")
	cmd.Flags().BoolVar(&history, "history", false, "Print every iteration")
	return cmd
}
