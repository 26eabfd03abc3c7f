// Package receptor holds the rigid receptor structure: its atoms, the
// docking box geometry, and the per-XS-type grid maps the scoring function
// is precalculated onto.
//
// Grounded on original_source/src/receptor.hpp for the interface shape
// (two constructors, precalculate/populate/e/within/index/coord), and on
// the teacher's backend/internal/physics/spatial_hash.go for the
// cell-bucketed neighbor culling adapted in spatial.go.
package receptor

import (
	"math"
	"math/rand"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
)

// Receptor is the rigid target structure plus the docking box that bounds
// the search, and the per-XS-type energy grid precalculated over that box.
type Receptor struct {
	Atoms    []pdbqt.Atom
	Residues []pdbqt.ResidueKey

	Corner0, Corner1 geometry.Vector3
	Granularity      float64
	granularityInv   float64
	NumProbes        [3]int
	numProbesProduct int

	PreciseMode bool

	maps        map[scoring.XSType][]float64
	atomsByCell *cellHash
}

// New builds a Receptor from a parsed PDBQT molecule and a docking box
// described by its center and half-extent-doubled size. Corner0 is
// center - size/2; Corner1 is pushed outward so that each box edge is a
// whole number of granularity steps.
func New(mol *pdbqt.Molecule, center, size geometry.Vector3, granularity float64, preciseMode bool) *Receptor {
	r := &Receptor{
		Atoms:          mol.Atoms,
		Residues:       mol.Residues,
		Granularity:    granularity,
		granularityInv: 1 / granularity,
		PreciseMode:    preciseMode,
		maps:           make(map[scoring.XSType][]float64),
	}

	half := size.Mul(0.5)
	corner0 := center.Sub(half)
	corner1 := center.Add(half)

	for i, lo := range []float64{corner0.X, corner0.Y, corner0.Z} {
		hi := []float64{corner1.X, corner1.Y, corner1.Z}[i]
		n := int(math.Ceil((hi - lo) / granularity))
		if n < 1 {
			n = 1
		}
		r.NumProbes[i] = n + 1
		switch i {
		case 0:
			r.Corner0.X, r.Corner1.X = lo, lo+float64(n)*granularity
		case 1:
			r.Corner0.Y, r.Corner1.Y = lo, lo+float64(n)*granularity
		case 2:
			r.Corner0.Z, r.Corner1.Z = lo, lo+float64(n)*granularity
		}
	}
	r.numProbesProduct = r.NumProbes[0] * r.NumProbes[1] * r.NumProbes[2]

	// cell size must be >= the scoring cutoff: Neighbors only scans the
	// adjacent 3x3x3 block, so a smaller cell would let a within-cutoff
	// atom fall outside the searched window.
	r.atomsByCell = newCellHash(scoring.Cutoff)
	for i, a := range r.Atoms {
		r.atomsByCell.Insert(i, a.Coord)
	}

	return r
}

// Within reports whether coord lies inside the docking box.
func (r *Receptor) Within(coord geometry.Vector3) bool {
	return coord.X >= r.Corner0.X && coord.X <= r.Corner1.X &&
		coord.Y >= r.Corner0.Y && coord.Y <= r.Corner1.Y &&
		coord.Z >= r.Corner0.Z && coord.Z <= r.Corner1.Z
}

// RandomPointInBox draws a uniformly-distributed point inside the docking
// box, used by search.RunTask to generate an initial Monte Carlo pose.
func (r *Receptor) RandomPointInBox(rng *rand.Rand) geometry.Vector3 {
	return geometry.Vector3{
		X: r.Corner0.X + rng.Float64()*(r.Corner1.X-r.Corner0.X),
		Y: r.Corner0.Y + rng.Float64()*(r.Corner1.Y-r.Corner0.Y),
		Z: r.Corner0.Z + rng.Float64()*(r.Corner1.Z-r.Corner0.Z),
	}
}

// Index returns the probe grid index of the voxel containing coord, clamped
// to the box: coord(index(c))[d] <= c[d] < coord(index(c))[d]+granularity.
func (r *Receptor) Index(coord geometry.Vector3) [3]int {
	clamp := func(v float64, n int) int {
		i := int(math.Floor(v * r.granularityInv))
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	return [3]int{
		clamp(coord.X-r.Corner0.X, r.NumProbes[0]),
		clamp(coord.Y-r.Corner0.Y, r.NumProbes[1]),
		clamp(coord.Z-r.Corner0.Z, r.NumProbes[2]),
	}
}

// Flat converts a 3D probe index into the flat offset used by maps.
func (r *Receptor) Flat(idx [3]int) int {
	return (idx[2]*r.NumProbes[1]+idx[1])*r.NumProbes[0] + idx[0]
}

// Coord returns the Cartesian coordinate of probe index idx.
func (r *Receptor) Coord(idx [3]int) geometry.Vector3 {
	return geometry.Vector3{
		X: r.Corner0.X + float64(idx[0])*r.Granularity,
		Y: r.Corner0.Y + float64(idx[1])*r.Granularity,
		Z: r.Corner0.Z + float64(idx[2])*r.Granularity,
	}
}

// Precalculate allocates (but does not fill) maps for every XS type in xs
// not already mapped, and primes the scoring function's table for those
// types against every XS type present in the receptor.
func (r *Receptor) Precalculate(xs []scoring.XSType, sf *scoring.Function) {
	present := make([]scoring.XSType, 0, len(xs)+8)
	present = append(present, xs...)
	seen := map[scoring.XSType]bool{}
	for _, a := range r.Atoms {
		if !seen[a.XS] {
			seen[a.XS] = true
			present = append(present, a.XS)
		}
	}
	sf.Precalculate(present)

	for _, t := range xs {
		if _, ok := r.maps[t]; !ok {
			r.maps[t] = make([]float64, r.numProbesProduct)
		}
	}
}

// UnmappedTypes returns the subset of xs that has no grid map yet, for
// deciding which types a newly-encountered ligand requires new maps for
// before populating them, matching original_source/src/main.cpp's
// rec.init_e(t) check.
func (r *Receptor) UnmappedTypes(xs []scoring.XSType) []scoring.XSType {
	var out []scoring.XSType
	for _, t := range xs {
		if _, ok := r.maps[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Populate fills one z-slab (z in [0, NumProbes[2])) of the grid maps for
// every type in xs, summing the precalculated pair potential against every
// nearby receptor atom. Designed to be fanned out one call per z value
// across a workpool.Pool, mirroring original_source/src/main.cpp's
// per-z-slab task split.
func (r *Receptor) Populate(xs []scoring.XSType, z int, sf *scoring.Function) {
	for _, t := range xs {
		row := r.maps[t]
		for y := 0; y < r.NumProbes[1]; y++ {
			for x := 0; x < r.NumProbes[0]; x++ {
				idx := [3]int{x, y, z}
				coord := r.Coord(idx)
				e := r.sumAtCoord(t, coord, sf)
				row[r.Flat(idx)] = e
			}
		}
	}
}

func (r *Receptor) sumAtCoord(t scoring.XSType, coord geometry.Vector3, sf *scoring.Function) float64 {
	var total float64
	for _, i := range r.atomsByCell.Neighbors(coord) {
		a := r.Atoms[i]
		d2 := geometry.DistanceSquared(coord, a.Coord)
		if d2 >= scoring.CutoffSquared {
			continue
		}
		e, _ := sf.Evaluate(t, a.XS, d2)
		total += e
	}
	return total
}

// E returns the interaction energy of an atom of type t at coord, either by
// reading the precalculated grid map value of the voxel containing coord,
// without interpolation (fast mode), or by direct
// pairwise summation over nearby receptor atoms (precise mode), matching
// original_source/src/receptor.hpp's two e() overloads.
func (r *Receptor) E(t scoring.XSType, coord geometry.Vector3, sf *scoring.Function) float64 {
	if r.PreciseMode {
		return r.sumAtCoord(t, coord, sf)
	}
	return r.EMap(t, r.Flat(r.Index(coord)))
}

// EMap returns the raw precalculated value at flat map index idx for type
// t, without bounds interpolation.
func (r *Receptor) EMap(t scoring.XSType, idx int) float64 {
	row := r.maps[t]
	if row == nil || idx < 0 || idx >= len(row) {
		return 0
	}
	return row[idx]
}

// Gradient returns d(e)/d(coord) for an atom of type t at coord: the
// per-atom Cartesian force an intermolecular interaction exerts on a ligand
// atom, folded into conformation.Evaluator's tree-wide translation/rotation/
// torsion gradient (spec.md §4.3). Precise mode sums the scoring function's
// dE/d(r^2) term analytically over nearby receptor atoms, the same way E's
// sumAtCoord sums energy; map mode takes central differences across
// adjacent grid voxels, since the map itself carries no derivative.
func (r *Receptor) Gradient(t scoring.XSType, coord geometry.Vector3, sf *scoring.Function) geometry.Vector3 {
	if r.PreciseMode {
		return r.gradientAtCoord(t, coord, sf)
	}
	return r.mapGradient(t, coord)
}

func (r *Receptor) gradientAtCoord(t scoring.XSType, coord geometry.Vector3, sf *scoring.Function) geometry.Vector3 {
	var g geometry.Vector3
	for _, i := range r.atomsByCell.Neighbors(coord) {
		a := r.Atoms[i]
		d := coord.Sub(a.Coord)
		d2 := d.NormSquared()
		if d2 >= scoring.CutoffSquared {
			continue
		}
		_, dE := sf.Evaluate(t, a.XS, d2)
		g = g.Add(d.Mul(2 * dE))
	}
	return g
}

func (r *Receptor) mapGradient(t scoring.XSType, coord geometry.Vector3) geometry.Vector3 {
	idx := r.Index(coord)

	axisGrad := func(axis int) float64 {
		plus, minus := idx, idx
		steps := 0
		if plus[axis] < r.NumProbes[axis]-1 {
			plus[axis]++
			steps++
		}
		if minus[axis] > 0 {
			minus[axis]--
			steps++
		}
		if steps == 0 {
			return 0
		}
		return (r.EMap(t, r.Flat(plus)) - r.EMap(t, r.Flat(minus))) / (float64(steps) * r.Granularity)
	}

	return geometry.Vector3{X: axisGrad(0), Y: axisGrad(1), Z: axisGrad(2)}
}
