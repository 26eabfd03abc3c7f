package docking

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/jdock/backend/internal/conformation"
	"github.com/sarat-asymmetrica/jdock/backend/internal/config"
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/receptor"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
)

const scoreTestReceptor = `ATOM      1  C1  ALA A   1       0.000   0.000   0.000  0.00  0.00    +0.000 C
TER
`

// A ligand whose single heavy atom sits at x=20, well outside a small box
// centered at the origin — spec.md scenario 3's "box rejection".
const scoreTestLigandOutOfBox = `ROOT
ATOM      1  C1  LIG A   1      20.000   0.000   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`

const scoreTestLigandInBox = `ROOT
ATOM      1  C1  LIG A   1       1.000   0.000   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`

func buildTestEngine(t *testing.T, preciseMode bool) *Engine {
	t.Helper()
	recMol, err := pdbqt.ParseMolecule(strings.NewReader(scoreTestReceptor))
	require.NoError(t, err)
	rec := receptor.New(recMol, geometry.Vector3{}, geometry.Vector3{X: 4, Y: 4, Z: 4}, 0.5, preciseMode)

	sf := scoring.NewFunction()
	sf.Precalculate([]scoring.XSType{scoring.CHydrophobic})

	return &Engine{
		Config:   &config.Config{PreciseMode: preciseMode},
		Scoring:  sf,
		Receptor: rec,
	}
}

// scoreInputPose's out-of-box handling reports an infinite score rather
// than failing the ligand outright (spec.md §7, end-to-end scenario 3).
func TestScoreInputPoseOutOfBoxReportsInfinity(t *testing.T) {
	e := buildTestEngine(t, false)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(scoreTestLigandOutOfBox))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)
	eval := conformation.NewEvaluator(lig, e.Receptor, e.Scoring)

	p, err := e.scoreInputPose(eval, lig, "out-of-box")
	require.NoError(t, err)
	require.True(t, math.IsInf(p.inter, 1))
	require.True(t, math.IsInf(p.normalized, 1))
}

func TestScoreInputPoseInBoxIsFinite(t *testing.T) {
	e := buildTestEngine(t, false)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(scoreTestLigandInBox))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)
	eval := conformation.NewEvaluator(lig, e.Receptor, e.Scoring)

	p, err := e.scoreInputPose(eval, lig, "in-box")
	require.NoError(t, err)
	require.False(t, math.IsInf(p.inter, 0))
	require.False(t, math.IsNaN(p.inter))
}

// In precise mode, scoreInputPose does not report an out-of-box input pose
// as +Inf (spec.md §7 calls that a "non-precise scoring" condition only);
// the pose goes through EnergyBreakdown, whose out-of-box short-circuit
// gives the finite VCutoff sentinel.
func TestScoreInputPoseOutOfBoxPreciseModeIsFinite(t *testing.T) {
	e := buildTestEngine(t, true)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(scoreTestLigandOutOfBox))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)
	eval := conformation.NewEvaluator(lig, e.Receptor, e.Scoring)

	p, err := e.scoreInputPose(eval, lig, "out-of-box-precise")
	require.NoError(t, err)
	require.False(t, math.IsInf(p.inter, 0))
}
