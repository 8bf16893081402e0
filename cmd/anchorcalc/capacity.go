package main

import (
	"github.com/spf13/cobra"
)

func newCapacityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "capacity <design.yaml>",
		Short: "Evaluate capacity and safety factors at the design geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, eng, err := opts.loadAnchor(args[0])
			if err != nil {
				return err
			}
			as, err := a.FS(opts.targets(eng))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printGeometry(out, a)
			printAssessment(out, as)
			return nil
		},
	}
}
