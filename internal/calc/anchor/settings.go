package anchor

import (
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/loads"
)

// Settings are the engineering defaults a service applies to every anchor
// it builds. Values given on the anchor or in a request win.
type Settings struct {
	Materials capacity.Materials `yaml:"materials"`
	Lateral   lateral.Config     `yaml:"lateral"`
	Chain     loads.Chain        `yaml:"chain"`
	Targets   loads.Factors      `yaml:"targets"`
	Overshoot loads.Factors      `yaml:"overshoot"`
}

func DefaultSettings() Settings {
	return Settings{
		Materials: capacity.DefaultMaterials(),
		Lateral:   lateral.DefaultConfig(),
		Chain:     loads.DefaultChain(),
		Targets:   DefaultTargets,
		Overshoot: DefaultOvershoot,
	}
}

// Apply fills the anchor's unset materials, lateral and chain settings.
func (s Settings) Apply(a *Anchor) {
	a.Materials = a.Materials.WithBase(s.Materials)
	if a.Lateral == (lateral.Config{}) {
		a.Lateral = s.Lateral
	}
	if a.Chain == (loads.Chain{}) {
		a.Chain = s.Chain
	}
}

// MinFS returns f, or the configured targets when f is zero.
func (s Settings) MinFS(f loads.Factors) loads.Factors {
	if f != (loads.Factors{}) {
		return f
	}
	if s.Targets != (loads.Factors{}) {
		return s.Targets
	}
	return DefaultTargets
}

// Sizing fills a size request's unset targets and overshoot.
func (s Settings) Sizing(c SizeConfig) SizeConfig {
	c.Targets = s.MinFS(c.Targets)
	if c.Overshoot == (loads.Factors{}) {
		c.Overshoot = s.Overshoot
	}
	return c
}
