// Package conformation evaluates the total docking energy of a ligand pose
// (intramolecular + intermolecular) and its gradient with respect to the
// pose's translation, rotation and torsion parameters.
//
// The energy-component-sum structure is grounded on the teacher's
// backend/internal/physics/energy.go (CalculateTotalEnergy summing named
// components). The gradient is analytic, not a finite-difference
// approximation: scoring.Function.Evaluate's dE/d(r^2) term gives each
// interacting atom pair's Cartesian derivative directly, and Evaluate folds
// the resulting per-atom forces up ligand.Ligand's frame tree — translation
// as their sum, rotation as their cross-sum about the root origin, and each
// torsion as the axis-projected cross-sum over its subtree — the same
// fold-up the teacher's backend/internal/optimization/quaternion_lbfgs.go
// performs for dihedral gradients, generalized here from a single dihedral
// chain to a branching rotatable-bond tree and to the full
// translation/rotation/torsion parameter set.
package conformation

import (
	"math"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/receptor"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
)

// VCutoff is the energy value assigned to a pose with any atom outside the
// docking box, large enough to dominate the Metropolis/BFGS comparison
// without overflowing downstream arithmetic.
const VCutoff = 1e8

// Change is the gradient of total energy with respect to a Conformation's
// free parameters: three translational, three rotational (tangent-space),
// and one per active torsion.
type Change struct {
	Position geometry.Vector3
	Torque   geometry.Vector3
	Torsions []float64
}

// Evaluator binds a ligand to a receptor and scoring function for repeated
// energy/gradient evaluation during search and local optimization.
type Evaluator struct {
	Ligand   *ligand.Ligand
	Receptor *receptor.Receptor
	Scoring  *scoring.Function

	exclude [][]bool // [atomIndex][atomIndex], true if excluded from intramolecular scoring
	frameOf []int    // [atomIndex] -> index into Ligand.Frames of the frame that owns it
}

// NewEvaluator builds an Evaluator, precomputing which ligand atom pairs are
// too close in the rotatable-bond tree to score intramolecularly (same
// frame, or adjacent frames — an approximation of "fewer than four bonds
// apart" appropriate to a PDBQT input that carries no explicit bond table).
func NewEvaluator(l *ligand.Ligand, r *receptor.Receptor, sf *scoring.Function) *Evaluator {
	n := len(l.Atoms)
	frameOf := make([]int, n)
	for fi, f := range l.Frames {
		for i := f.AtomBegin; i < f.AtomEnd; i++ {
			frameOf[i] = fi
		}
	}
	parent := make([]int, len(l.Frames))
	for fi, f := range l.Frames {
		parent[fi] = f.Parent
	}

	exclude := make([][]bool, n)
	for i := range exclude {
		exclude[i] = make([]bool, n)
	}
	adjacentFrame := func(a, b int) bool {
		if a == b {
			return true
		}
		if parent[a] == b || parent[b] == a {
			return true
		}
		if parent[a] >= 0 && parent[a] == parent[b] {
			return true
		}
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if adjacentFrame(frameOf[i], frameOf[j]) {
				exclude[i][j] = true
				exclude[j][i] = true
			}
		}
	}

	return &Evaluator{Ligand: l, Receptor: r, Scoring: sf, exclude: exclude, frameOf: frameOf}
}

// OutOfBox reports whether any of coords lies outside the receptor's
// docking box, the condition spec.md §4.3 calls out for special handling:
// the move is rejected during search, and the as-parsed input pose is
// reported with an infinite intermolecular energy rather than scored.
func (e *Evaluator) OutOfBox(coords []geometry.Vector3) bool {
	for _, c := range coords {
		if !e.Receptor.Within(c) {
			return true
		}
	}
	return false
}

// Energy returns the total docking energy of conf: intramolecular pairwise
// terms plus intermolecular receptor-grid (or precise-mode) terms. Any atom
// outside the docking box short-circuits to VCutoff.
func (e *Evaluator) Energy(conf ligand.Conformation) float64 {
	coords := e.Ligand.Apply(conf)

	if e.OutOfBox(coords) {
		return VCutoff
	}

	var total float64
	atoms := e.Ligand.Atoms
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if e.exclude[i][j] {
				continue
			}
			d2 := geometry.DistanceSquared(coords[i], coords[j])
			if d2 >= scoring.CutoffSquared {
				continue
			}
			ev, _ := e.Scoring.Evaluate(atoms[i].XS, atoms[j].XS, d2)
			total += ev
		}
	}

	for i, c := range coords {
		total += e.Receptor.E(atoms[i].XS, c, e.Scoring)
	}

	return total
}

// EnergyBreakdown returns the intramolecular and intermolecular components
// of conf's total energy separately, for reporting columns that distinguish
// the two (spec.md's "Intra-Ligand Free" / "Inter-Ligand Free" columns).
func (e *Evaluator) EnergyBreakdown(conf ligand.Conformation) (intra, inter float64) {
	coords := e.Ligand.Apply(conf)
	atoms := e.Ligand.Atoms

	if e.OutOfBox(coords) {
		return 0, VCutoff
	}

	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if e.exclude[i][j] {
				continue
			}
			d2 := geometry.DistanceSquared(coords[i], coords[j])
			if d2 >= scoring.CutoffSquared {
				continue
			}
			ev, _ := e.Scoring.Evaluate(atoms[i].XS, atoms[j].XS, d2)
			intra += ev
		}
	}

	for i, c := range coords {
		inter += e.Receptor.E(atoms[i].XS, c, e.Scoring)
	}

	return intra, inter
}

// PerResidueEnergy returns, for a posed conformation, the intermolecular
// energy contributed by each receptor residue, keyed the way
// internal/report's CSV writer expects.
func (e *Evaluator) PerResidueEnergy(conf ligand.Conformation) map[pdbqt.ResidueKey]float64 {
	coords := e.Ligand.Apply(conf)
	atoms := e.Ligand.Atoms

	out := make(map[pdbqt.ResidueKey]float64)
	for i, ra := range e.Receptor.Atoms {
		key := pdbqt.ResidueKey{Chain: ra.Chain, ResSeq: ra.ResSeq, ResName: ra.ResName}
		for j, c := range coords {
			d2 := geometry.DistanceSquared(c, ra.Coord)
			if d2 >= scoring.CutoffSquared {
				continue
			}
			ev, _ := e.Scoring.Evaluate(atoms[j].XS, ra.XS, d2)
			out[key] += ev
		}
		_ = i
	}
	return out
}

// Evaluate returns both the energy of conf and its analytic gradient with
// respect to conf's free parameters (spec.md §4.3). Each scored atom pair's
// dE/d(r^2) term (already tabulated by scoring.Function) gives that pair's
// Cartesian force on both atoms; those per-atom forces are then folded up
// the ligand's frame tree: the translational gradient is their sum, the
// rotational gradient is their cross-sum of (atom - root origin) about the
// root, and each torsion's gradient is the cross-sum of (atom - frame
// origin) over every atom in that frame's subtree, projected onto the
// frame's world-space rotation axis.
func (e *Evaluator) Evaluate(conf ligand.Conformation) (float64, Change) {
	coords, states := e.Ligand.ApplyDetailed(conf)

	change := Change{Torsions: make([]float64, len(conf.Torsions))}

	if e.OutOfBox(coords) {
		inf := geometry.Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
		change.Position, change.Torque = inf, inf
		for i := range change.Torsions {
			change.Torsions[i] = math.Inf(1)
		}
		return VCutoff, change
	}

	atoms := e.Ligand.Atoms
	atomGrad := make([]geometry.Vector3, len(atoms))
	var total float64

	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if e.exclude[i][j] {
				continue
			}
			d := coords[i].Sub(coords[j])
			d2 := d.NormSquared()
			if d2 >= scoring.CutoffSquared {
				continue
			}
			ev, dE := e.Scoring.Evaluate(atoms[i].XS, atoms[j].XS, d2)
			total += ev
			// d(r^2)/d(coords[i]) = 2*d, d(r^2)/d(coords[j]) = -2*d.
			g := d.Mul(2 * dE)
			atomGrad[i] = atomGrad[i].Add(g)
			atomGrad[j] = atomGrad[j].Sub(g)
		}
	}

	for i, c := range coords {
		total += e.Receptor.E(atoms[i].XS, c, e.Scoring)
		atomGrad[i] = atomGrad[i].Add(e.Receptor.Gradient(atoms[i].XS, c, e.Scoring))
	}

	root := states[0].Origin
	var posGrad, torque geometry.Vector3
	torsionGrad := change.Torsions
	for i, g := range atomGrad {
		posGrad = posGrad.Add(g)
		torque = torque.Add(coords[i].Sub(root).Cross(g))

		for fi := e.frameOf[i]; fi != 0; fi = e.Ligand.Frames[fi].Parent {
			st := states[fi]
			torsionGrad[fi-1] += st.Axis.Dot(coords[i].Sub(st.Origin).Cross(g))
		}
	}

	change.Position = posGrad
	// ligand.Conformation.Orientation.ExpMapUpdate takes its tangent vector
	// in the root frame's own (body) coordinates, since Multiply composes
	// the update as orientation*delta — the delta rotation happens first,
	// in the frame orientation already establishes. Rotate the world-frame
	// torque sum back into that frame before returning it.
	change.Torque = conf.Orientation.Conjugate().RotateVector(torque)

	return total, change
}
