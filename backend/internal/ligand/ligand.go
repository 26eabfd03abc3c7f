// Package ligand builds the rotatable-bond frame tree a PDBQT ligand
// describes and applies rigid-body + torsional conformations to it to
// produce world coordinates for scoring.
//
// The parent-indexed frame tree and parent-before-child traversal order are
// grounded on the teacher's backend/internal/geometry/coordinate_builder.go
// chain-building walk, repurposed from building a protein backbone from
// internal coordinates to applying a docking pose to a parsed rotatable-bond
// tree; rotation composition uses internal/geometry.Quaternion.
package ligand

import (
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
)

// vinaTorsionWeight is the empirical per-active-torsion normalization
// constant used to flatten the energy landscape's bias toward flexible
// ligands, matching the Vina/idock-family scoring convention.
const vinaTorsionWeight = 0.05846

// Ligand is a parsed, frame-tree-resolved flexible ligand: a rigid root
// plus a chain of BRANCH frames connected by rotatable bonds.
type Ligand struct {
	Atoms  []pdbqt.Atom
	Frames []pdbqt.Frame

	local  []geometry.Vector3 // per-atom coordinate relative to its own frame's origin
	axis   []geometry.Vector3 // per-frame (index>0) rotation axis, in parse-time coordinates
	origin []geometry.Vector3 // per-frame origin point, in parse-time coordinates

	NumHeavyAtoms      int
	NumActiveTorsions  int
	FlexibilityPenalty float64
	XSPresent          []scoring.XSType
}

// Conformation is a docking pose: a rigid translation/orientation for the
// root frame plus one torsion angle (radians) per non-root frame, in the
// same order as Ligand.Frames[1:].
type Conformation struct {
	Position    geometry.Vector3
	Orientation geometry.Quaternion
	Torsions    []float64
}

// NewConformation returns a Conformation with zero torsions, identity
// orientation and zero position; callers typically follow with random
// perturbation before use as a Monte Carlo starting pose.
func (l *Ligand) NewConformation() Conformation {
	return Conformation{Orientation: geometry.Identity, Torsions: make([]float64, l.NumActiveTorsions)}
}

// InputConformation returns the Conformation that reproduces the ligand's
// as-parsed pose exactly: Apply(l.InputConformation()) reconstructs
// l.Atoms[i].Coord for every i, since Build recorded each frame's local
// coordinates relative to the frame's own origin point. Used for
// --score_only/--score_dock, which score the pose the input file carried
// rather than a searched one.
func (l *Ligand) InputConformation() Conformation {
	return Conformation{
		Position:    l.origin[0],
		Orientation: geometry.Identity,
		Torsions:    make([]float64, l.NumActiveTorsions),
	}
}

// Build resolves a parsed PDBQT molecule into a Ligand ready for
// conformation application.
func Build(mol *pdbqt.Molecule) *Ligand {
	l := &Ligand{
		Atoms:  mol.Atoms,
		Frames: mol.Frames,
		local:  make([]geometry.Vector3, len(mol.Atoms)),
		axis:   make([]geometry.Vector3, len(mol.Frames)),
		origin: make([]geometry.Vector3, len(mol.Frames)),
	}

	// root origin: centroid of the root frame's atoms.
	root := mol.Frames[0]
	var centroid geometry.Vector3
	for i := root.AtomBegin; i < root.AtomEnd; i++ {
		centroid = centroid.Add(mol.Atoms[i].Coord)
	}
	if n := root.AtomEnd - root.AtomBegin; n > 0 {
		centroid = centroid.Mul(1 / float64(n))
	}
	l.origin[0] = centroid
	for i := root.AtomBegin; i < root.AtomEnd; i++ {
		l.local[i] = mol.Atoms[i].Coord.Sub(centroid)
	}

	for fi := 1; fi < len(mol.Frames); fi++ {
		f := mol.Frames[fi]
		pivot := mol.Atoms[f.RotorYAtom].Coord
		l.origin[fi] = pivot
		l.axis[fi] = pivot.Sub(mol.Atoms[f.RotorXAtom].Coord).Normalize()
		for i := f.AtomBegin; i < f.AtomEnd; i++ {
			l.local[i] = mol.Atoms[i].Coord.Sub(pivot)
		}
		l.NumActiveTorsions++
	}

	l.FlexibilityPenalty = 1 / (1 + vinaTorsionWeight*float64(l.NumActiveTorsions))

	seen := map[scoring.XSType]bool{}
	for _, a := range mol.Atoms {
		l.NumHeavyAtoms++
		if !seen[a.XS] {
			seen[a.XS] = true
			l.XSPresent = append(l.XSPresent, a.XS)
		}
	}

	return l
}

// frameTransform is a frame's cumulative rigid transform: World = Origin +
// Orientation.RotateVector(local coordinate).
type frameTransform struct {
	origin      geometry.Vector3
	orientation geometry.Quaternion
}

// FrameState is one frame's resolved placement for an applied conformation:
// its world-space origin, and, for non-root frames, the world-space axis
// its torsion rotates about. conformation.Evaluator uses this to fold
// per-atom Cartesian gradients up the frame tree into the rotation (about
// the root origin) and per-torsion (projection onto each frame's axis)
// components of spec.md §4.3's analytic gradient. The root frame (index 0)
// has no torsion, so its Axis is the zero vector.
type FrameState struct {
	Origin geometry.Vector3
	Axis   geometry.Vector3
}

// Apply evaluates conf and returns the world coordinate of every atom, in
// the same order as Ligand.Atoms.
func (l *Ligand) Apply(conf Conformation) []geometry.Vector3 {
	coords, _ := l.ApplyDetailed(conf)
	return coords
}

// ApplyDetailed evaluates conf like Apply, additionally returning each
// frame's resolved FrameState.
func (l *Ligand) ApplyDetailed(conf Conformation) ([]geometry.Vector3, []FrameState) {
	transforms := make([]frameTransform, len(l.Frames))
	transforms[0] = frameTransform{origin: conf.Position, orientation: conf.Orientation}

	states := make([]FrameState, len(l.Frames))
	states[0] = FrameState{Origin: conf.Position}

	for fi := 1; fi < len(l.Frames); fi++ {
		f := l.Frames[fi]
		parent := transforms[f.Parent]
		worldAxis := parent.orientation.RotateVector(l.axis[fi])
		delta := geometry.AxisAngle(l.axis[fi], conf.Torsions[fi-1])
		worldOrigin := parent.origin.Add(parent.orientation.RotateVector(l.origin[fi].Sub(l.origin[f.Parent])))
		transforms[fi] = frameTransform{
			origin:      worldOrigin,
			orientation: parent.orientation.Multiply(delta),
		}
		states[fi] = FrameState{Origin: worldOrigin, Axis: worldAxis}
	}

	coords := make([]geometry.Vector3, len(l.Atoms))
	for fi, f := range l.Frames {
		t := transforms[fi]
		for i := f.AtomBegin; i < f.AtomEnd; i++ {
			coords[i] = t.origin.Add(t.orientation.RotateVector(l.local[i]))
		}
	}
	return coords, states
}
