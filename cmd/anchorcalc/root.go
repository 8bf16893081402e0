package main

import (
	"fmt"
	"os"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/loads"
	"Seabed/internal/config"

	"github.com/sgostarter/i/l"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	engineering string
	minH, minV  float64
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "anchorcalc",
		Short: "Offshore anchor capacity and sizing",
		Long: `Evaluate the holding capacity of suction, driven, helical, plate,
torpedo and drilled-and-grouted anchors in clay, sand and rock, and size
their geometry against target safety factors.

A design file is YAML:

  type: suction_pile
  design: {L: 15, D: 2, zlug: 9.32}
  soil_type: clay
  soil_properties:
    profile:            # clay: z, Su, gamma
      - [1, 10, 8.0]
      - [25, 50, 9.0]
  loads: {Hm: 4.0e6, Vm: 2.0e6}   # mudline, N`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.engineering, "engineering", "", "YAML file with materials, lateral, chain and target settings")
	root.PersistentFlags().Float64Var(&opts.minH, "min-fs-h", 0, "Target horizontal safety factor (default from engineering settings)")
	root.PersistentFlags().Float64Var(&opts.minV, "min-fs-v", -1, "Target vertical safety factor, 0 leaves V unconstrained")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log sizing iterations")

	root.AddCommand(newCapacityCmd(opts), newSizeCmd(opts), newLateralCmd(opts))
	return root
}

func (o *options) settings() (config.Engineering, error) {
	if o.engineering == "" {
		return config.DefaultEngineering(), nil
	}
	return config.LoadEngineering(o.engineering)
}

func (o *options) targets(eng config.Engineering) loads.Factors {
	t := eng.Targets
	if o.minH > 0 {
		t.Ha = o.minH
	}
	if o.minV >= 0 {
		t.Va = o.minV
	}
	return t
}

func (o *options) logger() l.Wrapper {
	if o.verbose {
		return l.NewConsoleLoggerWrapper()
	}
	return l.NewNopLoggerWrapper()
}

// loadAnchor reads a design file and applies engineering settings.
func (o *options) loadAnchor(path string) (*anchor.Anchor, config.Engineering, error) {
	eng, err := o.settings()
	if err != nil {
		return nil, config.Engineering{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Engineering{}, err
	}
	var dd map[string]any
	if err := yaml.Unmarshal(b, &dd); err != nil {
		return nil, config.Engineering{}, fmt.Errorf("%s: %w", path, err)
	}
	a, err := anchor.FromDesign(dd)
	if err != nil {
		return nil, config.Engineering{}, fmt.Errorf("%s: %w", path, err)
	}
	eng.Apply(a)
	a.Logger = o.logger()
	return a, eng, nil
}
