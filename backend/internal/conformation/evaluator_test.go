package conformation

import (
	"math"
	"strings"
	"testing"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/receptor"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
	"github.com/stretchr/testify/require"
)

const sampleReceptor = `ATOM      1  C1  ALA A   1       0.000   0.000   0.000  0.00  0.00    +0.000 C
TER
`

const sampleLigand = `ROOT
ATOM      1  C1  LIG A   1       1.000   0.000   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`

func buildEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	recMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	require.NoError(t, err)
	rec := receptor.New(recMol, geometry.Vector3{}, geometry.Vector3{X: 10, Y: 10, Z: 10}, 0.5, true)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)

	sf := scoring.NewFunction()
	sf.Precalculate([]scoring.XSType{scoring.CHydrophobic})

	return NewEvaluator(lig, rec, sf)
}

func TestEnergyOutsideBoxIsCutoff(t *testing.T) {
	e := buildEvaluator(t)
	conf := e.Ligand.NewConformation()
	conf.Position = geometry.Vector3{X: 1000, Y: 0, Z: 0}
	require.Equal(t, VCutoff, e.Energy(conf))
}

func TestEnergyFiniteInsideBox(t *testing.T) {
	e := buildEvaluator(t)
	conf := e.Ligand.NewConformation()
	energy := e.Energy(conf)
	require.False(t, math.IsNaN(energy))
	require.False(t, math.IsInf(energy, 0))
}

func TestGradientFiniteInsideBox(t *testing.T) {
	e := buildEvaluator(t)
	conf := e.Ligand.NewConformation()
	_, change := e.Evaluate(conf)
	require.False(t, math.IsInf(change.Position.Norm(), 0))
	require.False(t, math.IsInf(change.Torque.Norm(), 0))
}

func TestGradientInfiniteOutsideBox(t *testing.T) {
	e := buildEvaluator(t)
	conf := e.Ligand.NewConformation()
	conf.Position = geometry.Vector3{X: 1000, Y: 0, Z: 0}
	_, change := e.Evaluate(conf)
	require.True(t, math.IsInf(change.Position.Norm(), 1))
}

// buildTwoAtomEvaluator returns an evaluator for a two-heavy-atom ligand
// whose atoms share the root frame, so their intramolecular pair is excluded
// and only the intermolecular term is in play, and with no rotatable bonds,
// so the translational gradient can be checked against a finite-difference
// reference of Energy directly.
func buildTwoAtomEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	recMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	require.NoError(t, err)
	rec := receptor.New(recMol, geometry.Vector3{}, geometry.Vector3{X: 10, Y: 10, Z: 10}, 0.5, true)

	const twoAtomLigand = `ROOT
ATOM      1  C1  LIG A   1       1.500   0.000   0.000  0.00  0.00    +0.000 C
ATOM      2  C2  LIG A   1       3.000   0.300   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`
	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(twoAtomLigand))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)

	sf := scoring.NewFunction()
	sf.Precalculate([]scoring.XSType{scoring.CHydrophobic})

	return NewEvaluator(lig, rec, sf)
}

// The analytic translational gradient returned by Evaluate must agree with
// a central-difference reference computed directly from Energy (spec.md
// §4.3's translation-is-a-sum-of-forces claim, checked independently of how
// Evaluate itself computes it).
func TestEvaluateGradientMatchesFiniteDifferenceOfEnergy(t *testing.T) {
	e := buildTwoAtomEvaluator(t)
	conf := e.Ligand.NewConformation()
	conf.Position = geometry.Vector3{X: 0.4, Y: 0.2, Z: -0.3}

	_, change := e.Evaluate(conf)

	const h = 1e-5
	for axis, d := range []geometry.Vector3{{X: h}, {Y: h}, {Z: h}} {
		plus, minus := conf, conf
		plus.Position = conf.Position.Add(d)
		minus.Position = conf.Position.Sub(d)
		want := (e.Energy(plus) - e.Energy(minus)) / (2 * h)

		var got float64
		switch axis {
		case 0:
			got = change.Position.X
		case 1:
			got = change.Position.Y
		case 2:
			got = change.Position.Z
		}
		require.InDelta(t, want, got, 1e-3)
	}
}
