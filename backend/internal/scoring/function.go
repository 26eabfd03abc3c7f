package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cutoff is the interaction distance beyond which the potential is zero.
const Cutoff = 8.0

// CutoffSquared is Cutoff*Cutoff, the squared-distance bound tables are
// precalculated against.
const CutoffSquared = Cutoff * Cutoff

// Step is the squared-distance sample spacing used when building the
// precalculated table, matching spec.md's documented discretization.
const Step = 0.0005

// numSamples is the number of squared-distance buckets in [0, CutoffSquared).
var numSamples = int(math.Ceil(CutoffSquared / Step))

// pairIndex maps an unordered pair of XSTypes to a row in the triangular
// table, p(t0,t1) = t1*(t1+1)/2 + t0 for t0 <= t1.
func pairIndex(a, b XSType) int {
	t0, t1 := a, b
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return int(t1)*(int(t1)+1)/2 + int(t0)
}

// numPairs is the number of distinct unordered type pairs.
var numPairs = pairIndex(NumTypes-1, NumTypes-1) + 1

// Function is a precalculated scoring table: for every unordered XSType
// pair it stores a dense array of (energy, derivative-of-energy-wrt-r2)
// samples over squared distance, sampled every Step out to CutoffSquared.
//
// This replaces the teacher's per-pair-of-atoms ljParams map lookup
// (backend/internal/physics/force_field.go) with a precalculated table, the
// scheme spec.md's scoring module requires so that per-conformation
// evaluation never resolves parameters at runtime.
type Function struct {
	e  [][]float64 // [pair][sample] energy
	dE [][]float64 // [pair][sample] dE/d(r2)
}

// NewFunction builds an empty table sized for every XSType pair. Call
// Precalculate to fill the rows actually needed by a given run.
func NewFunction() *Function {
	return &Function{
		e:  make([][]float64, numPairs),
		dE: make([][]float64, numPairs),
	}
}

// Precalculate fills the table rows for every pair drawn from the given set
// of XSTypes that hasn't already been filled. It is safe to call
// incrementally as new ligand atom types are discovered.
func (f *Function) Precalculate(types []XSType) {
	for _, t0 := range types {
		for _, t1 := range types {
			f.PrecalculatePair(t0, t1)
		}
	}
}

// PrecalculatePair fills the single table row for the unordered pair
// (t0, t1) if it hasn't already been filled, and reports whether it did
// any work. Exposed as its own unit so callers (internal/docking) can fan
// precalculation out across a work pool, one task per pair, matching
// spec.md §4.1's "pre-population is fanned out to the work pool with a
// counted barrier".
func (f *Function) PrecalculatePair(t0, t1 XSType) bool {
	idx := pairIndex(t0, t1)
	if f.e[idx] != nil {
		return false
	}
	f.e[idx], f.dE[idx] = precalculateRow(t0, t1)
	return true
}

// Pairs returns every unordered pair index among types, deduplicated, for
// driving PrecalculatePair one task at a time.
func Pairs(types []XSType) [][2]XSType {
	seen := map[int]bool{}
	var out [][2]XSType
	for _, t0 := range types {
		for _, t1 := range types {
			idx := pairIndex(t0, t1)
			if seen[idx] {
				continue
			}
			seen[idx] = true
			out = append(out, [2]XSType{t0, t1})
		}
	}
	return out
}

// precalculateRow samples the five-term potential between types t0 and t1
// across every squared-distance bucket.
func precalculateRow(t0, t1 XSType) (e, dE []float64) {
	e = make([]float64, numSamples)
	dE = make([]float64, numSamples)

	r0 := covalentRadius[t0] + covalentRadius[t1]
	hydrophobic := t0.IsHydrophobic() && t1.IsHydrophobic()
	hbond := (t0.IsHBDonor() && t1.IsHBAcceptor()) || (t0.IsHBAcceptor() && t1.IsHBDonor())

	r2s := make([]float64, numSamples)
	floats.Span(r2s, Step/2, CutoffSquared-Step/2)

	for i, r2 := range r2s {
		r := math.Sqrt(r2)
		ev, dev := evaluateTerms(r, r0, hydrophobic, hbond)
		e[i] = ev
		dE[i] = dev / (2 * r) // chain rule: dE/d(r2) = dE/dr * dr/d(r2)
	}
	return e, dE
}

// Potential term weights, matching the Vina/idock-family empirical scoring
// function spec.md's scoring module specifies.
const (
	weightGauss1      = -0.035579
	weightGauss2      = -0.005156
	weightRepulsion   = 0.840245
	weightHydrophobic = -0.035069
	weightHBond       = -0.587439
)

// evaluateTerms evaluates the five-term potential and its derivative with
// respect to r (not r2) at surface-to-surface distance d = r - r0.
func evaluateTerms(r, r0 float64, hydrophobic, hbond bool) (e, dEdr float64) {
	d := r - r0

	// gauss1: centered at the surface, width 0.5
	g1 := math.Exp(-(d / 0.5) * (d / 0.5))
	dg1 := g1 * (-2 * d / (0.5 * 0.5))

	// gauss2: centered 3A beyond the surface, width 2.0
	d2 := d - 3.0
	g2 := math.Exp(-(d2 / 2.0) * (d2 / 2.0))
	dg2 := g2 * (-2 * d2 / (2.0 * 2.0))

	e = weightGauss1*g1 + weightGauss2*g2
	dEdr = weightGauss1*dg1 + weightGauss2*dg2

	// short-range repulsion for surface overlap
	if d < 0 {
		e += weightRepulsion * d * d
		dEdr += weightRepulsion * 2 * d
	}

	if hydrophobic {
		v, dv := rampDown(d, 0.5, 1.5)
		e += weightHydrophobic * v
		dEdr += weightHydrophobic * dv
	}

	if hbond {
		v, dv := rampDown(d, -0.7, 0.0)
		e += weightHBond * v
		dEdr += weightHBond * dv
	}

	return e, dEdr
}

// rampDown returns a linear ramp that is 1 below lo, 0 above hi, and
// linearly interpolated in between, along with its derivative.
func rampDown(d, lo, hi float64) (v, dv float64) {
	switch {
	case d <= lo:
		return 1, 0
	case d >= hi:
		return 0, 0
	default:
		span := hi - lo
		return (hi - d) / span, -1 / span
	}
}

// Evaluate returns the energy and dE/d(r2) between atom types t0 and t1 at
// squared distance r2, by looking up the nearest precalculated sample.
// Callers may skip their own cutoff check: a sample at or beyond the table's
// range (r2 >= CutoffSquared) returns (0, 0) unconditionally, matching
// spec.md's "if i >= table_size it returns (0, 0)" contract.
func (f *Function) Evaluate(t0, t1 XSType, r2 float64) (e, dE float64) {
	idx := pairIndex(t0, t1)
	row := f.e[idx]
	if row == nil {
		return 0, 0
	}
	sample := int(r2 / Step)
	if sample < 0 {
		sample = 0
	}
	if sample >= numSamples {
		return 0, 0
	}
	return f.e[idx][sample], f.dE[idx][sample]
}

// NumSamples reports the number of squared-distance buckets in the table,
// exported for grid-map memory estimation.
func NumSamples() int { return numSamples }
