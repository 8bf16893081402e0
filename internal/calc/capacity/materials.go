package capacity

// Materials are the unit weights and steel properties every capacity model
// reads. Unit weights are in N/m3, stresses in Pa.
type Materials struct {
	SteelUnitWeight float64 `json:"steel_unit_weight_n_m3" yaml:"steel_unit_weight_n_m3"`
	WaterUnitWeight float64 `json:"water_unit_weight_n_m3" yaml:"water_unit_weight_n_m3"`
	GroutUnitWeight float64 `json:"grout_unit_weight_n_m3" yaml:"grout_unit_weight_n_m3"`
	SteelYield      float64 `json:"steel_yield_pa" yaml:"steel_yield_pa"`
	SteelModulus    float64 `json:"steel_modulus_pa" yaml:"steel_modulus_pa"`

	// Wall thickness in metres is WallBase + WallPerDiameter*D.
	WallBase        float64 `json:"wall_base_m" yaml:"wall_base_m"`
	WallPerDiameter float64 `json:"wall_per_diameter" yaml:"wall_per_diameter"`

	WeightFactor        float64 `json:"weight_factor" yaml:"weight_factor"`
	PlateThicknessRatio float64 `json:"plate_thickness_ratio" yaml:"plate_thickness_ratio"`
	GroutBond           float64 `json:"grout_bond_kpa" yaml:"grout_bond_kpa"`
	NegligibleDivisor   float64 `json:"negligible_divisor_m" yaml:"negligible_divisor_m"`

	// HelicalTanDelta makes helical sand shaft friction use tan(delta)
	// instead of delta in degrees.
	HelicalTanDelta bool `json:"helical_tan_delta" yaml:"helical_tan_delta"`
}

func DefaultMaterials() Materials {
	return Materials{
		SteelUnitWeight:     66.90e3,
		WaterUnitWeight:     10e3,
		GroutUnitWeight:     14e3,
		SteelYield:          355e6,
		SteelModulus:        200e9,
		WallBase:            6.35e-3,
		WallPerDiameter:     20e-3,
		WeightFactor:        1.10,
		PlateThicknessRatio: 0.0125,
		GroutBond:           1000,
		NegligibleDivisor:   1e-6,
	}
}

// WithDefaults fills zero fields from DefaultMaterials.
func (m Materials) WithDefaults() Materials {
	return m.WithBase(DefaultMaterials())
}

// WithBase fills zero fields from base, then from DefaultMaterials.
func (m Materials) WithBase(base Materials) Materials {
	d := DefaultMaterials()
	fill := func(v *float64, b, def float64) {
		if *v > 0 {
			return
		}
		*v = b
		if *v <= 0 {
			*v = def
		}
	}
	fill(&m.SteelUnitWeight, base.SteelUnitWeight, d.SteelUnitWeight)
	fill(&m.WaterUnitWeight, base.WaterUnitWeight, d.WaterUnitWeight)
	fill(&m.GroutUnitWeight, base.GroutUnitWeight, d.GroutUnitWeight)
	fill(&m.SteelYield, base.SteelYield, d.SteelYield)
	fill(&m.SteelModulus, base.SteelModulus, d.SteelModulus)
	fill(&m.WallBase, base.WallBase, d.WallBase)
	fill(&m.WallPerDiameter, base.WallPerDiameter, d.WallPerDiameter)
	fill(&m.WeightFactor, base.WeightFactor, d.WeightFactor)
	fill(&m.PlateThicknessRatio, base.PlateThicknessRatio, d.PlateThicknessRatio)
	fill(&m.GroutBond, base.GroutBond, d.GroutBond)
	fill(&m.NegligibleDivisor, base.NegligibleDivisor, d.NegligibleDivisor)
	m.HelicalTanDelta = m.HelicalTanDelta || base.HelicalTanDelta
	return m
}

// Wall returns the steel wall thickness for a tube of diameter d.
func (m Materials) Wall(d float64) float64 {
	return m.WallBase + m.WallPerDiameter*d
}

// divisor guards a lever arm against zero.
func (m Materials) divisor(arm float64) float64 {
	if arm < 0 {
		arm = -arm
	}
	if arm == 0 {
		return m.NegligibleDivisor
	}
	return arm
}
