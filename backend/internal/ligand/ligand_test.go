package ligand

import (
	"math"
	"strings"
	"testing"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/stretchr/testify/require"
)

const sampleLigand = `ROOT
ATOM      1  C1  LIG A   1      10.000  10.000  10.000  0.00  0.00    +0.000 C
ATOM      2  N1  LIG A   1      11.000  10.000  10.000  0.00  0.00    -0.300 NA
ENDROOT
BRANCH   1   3
ATOM      3  C2  LIG A   1      12.000  10.000  10.000  0.00  0.00    +0.000 C
ATOM      4  C3  LIG A   1      12.000  11.000  10.000  0.00  0.00    +0.000 C
ENDBRANCH   1   3
TORSDOF 1
TER
`

func mustBuild(t *testing.T) *Ligand {
	t.Helper()
	mol, err := pdbqt.ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	return Build(mol)
}

func TestBuildCountsTorsions(t *testing.T) {
	l := mustBuild(t)
	require.Equal(t, 1, l.NumActiveTorsions)
	require.Equal(t, 4, l.NumHeavyAtoms)
}

func TestApplyIdentityReproducesLocalGeometry(t *testing.T) {
	l := mustBuild(t)
	conf := l.NewConformation()
	coords := l.Apply(conf)

	// identity orientation, zero translation, zero torsion must reproduce
	// the original inter-atomic distances (rigid body unchanged).
	d01 := geometry.DistanceSquared(coords[0], coords[1])
	origD01 := geometry.DistanceSquared(l.Atoms[0].Coord, l.Atoms[1].Coord)
	require.InDelta(t, origD01, d01, 1e-9)
}

func TestApplyTranslation(t *testing.T) {
	l := mustBuild(t)
	conf := l.NewConformation()
	conf.Position = geometry.Vector3{X: 5, Y: 0, Z: 0}
	coords := l.Apply(conf)

	// distances between atoms are preserved under pure translation
	d := geometry.DistanceSquared(coords[0], coords[2])
	origD := geometry.DistanceSquared(l.Atoms[0].Coord, l.Atoms[2].Coord)
	require.InDelta(t, origD, d, 1e-6)
}

func TestApplyTorsionRotatesOnlyChildFrame(t *testing.T) {
	l := mustBuild(t)
	conf := l.NewConformation()
	conf.Torsions[0] = math.Pi / 2

	before := l.Apply(l.NewConformation())
	after := l.Apply(conf)

	// root atoms (frame 0) must be unaffected by a torsion of frame 1
	require.InDelta(t, 0, geometry.DistanceSquared(before[0], after[0]), 1e-9)
	require.InDelta(t, 0, geometry.DistanceSquared(before[1], after[1]), 1e-9)

	// the pivot atom of the branch (index 2) is unmoved by its own torsion;
	// the off-axis branch atom (index 3) must move.
	require.Greater(t, geometry.DistanceSquared(before[3], after[3]), 1e-6)
}
