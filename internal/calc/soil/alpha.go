package soil

import "math"

// Psi is the strength ratio Su/σ'v. The stress is floored at a tiny
// positive value so a zero overburden cannot divide by zero.
func Psi(su, sigmaV float64) float64 {
	return su / math.Max(sigmaV, 1e-9)
}

// Alpha is the API RP2A shaft adhesion factor. The branch at psi = 1 is the
// published discontinuity in the exponent and must not be smoothed; both
// branches give 0.5 at the boundary.
func Alpha(su, sigmaV float64) float64 {
	psi := Psi(su, sigmaV)
	if psi <= 0 {
		return 1
	}
	if psi <= 1.0 {
		return math.Min(0.5*math.Pow(psi, -0.5), 1)
	}
	return math.Min(0.5*math.Pow(psi, -0.25), 1)
}
