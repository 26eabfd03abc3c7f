package optimize

import (
	"strings"
	"testing"

	"github.com/sarat-asymmetrica/jdock/backend/internal/conformation"
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
ATOM      1  C1  LIG A   1       3.000   0.000   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`

func buildEvaluator(t *testing.T) *conformation.Evaluator {
	t.Helper()
	recMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	require.NoError(t, err)
	rec := receptor.New(recMol, geometry.Vector3{}, geometry.Vector3{X: 20, Y: 20, Z: 20}, 0.5, true)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)

	sf := scoring.NewFunction()
	sf.Precalculate([]scoring.XSType{scoring.CHydrophobic})

	return conformation.NewEvaluator(lig, rec, sf)
}

func TestMinimizeDoesNotIncreaseEnergy(t *testing.T) {
	eval := buildEvaluator(t)
	start := eval.Ligand.NewConformation()
	start.Position = geometry.Vector3{X: 6, Y: 0, Z: 0}
	startEnergy := eval.Energy(start)

	result := Minimize(eval, start, DefaultConfig())
	require.LessOrEqual(t, result.Energy, startEnergy+1e-9)
}

func TestMinimizeRespectsIterationCap(t *testing.T) {
	eval := buildEvaluator(t)
	start := eval.Ligand.NewConformation()
	cfg := DefaultConfig()
	cfg.MaxIterations = 3
	result := Minimize(eval, start, cfg)
	require.LessOrEqual(t, result.Iterations, cfg.MaxIterations)
}
