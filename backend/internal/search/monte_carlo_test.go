package search

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
ATOM      1  C1  LIG A   1       1.000   0.000   0.000  0.00  0.00    +0.000 C
ENDROOT
TER
`

func buildEvaluator(t *testing.T) *conformation.Evaluator {
	t.Helper()
	recMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	require.NoError(t, err)
	rec := receptor.New(recMol, geometry.Vector3{}, geometry.Vector3{X: 10, Y: 10, Z: 10}, 0.5, true)

	ligMol, err := pdbqt.ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	lig := ligand.Build(ligMol)

	sf := scoring.NewFunction()
	sf.Precalculate([]scoring.XSType{scoring.CHydrophobic})

	return conformation.NewEvaluator(lig, rec, sf)
}

func TestRunTaskProducesSortedResults(t *testing.T) {
	eval := buildEvaluator(t)
	cfg := DefaultConfig()
	cfg.NumSteps = 5

	results := RunTask(eval, 42, cfg)
	require.NotEmpty(t, results.Results)
	for i := 1; i < len(results.Results); i++ {
		require.LessOrEqual(t, results.Results[i-1].Energy, results.Results[i].Energy)
	}
}

func TestRunTaskIsDeterministicForFixedSeed(t *testing.T) {
	eval := buildEvaluator(t)
	cfg := DefaultConfig()
	cfg.NumSteps = 5

	a := RunTask(eval, 7, cfg)
	b := RunTask(eval, 7, cfg)
	require.Equal(t, len(a.Results), len(b.Results))
	for i := range a.Results {
		require.InDelta(t, a.Results[i].Energy, b.Results[i].Energy, 1e-9)
	}
}

func TestResultSetCapsSize(t *testing.T) {
	set := NewResultSet(2, 0.01)
	set.Push(Result{Energy: 1, Coords: []geometry.Vector3{{X: 0}}})
	set.Push(Result{Energy: -1, Coords: []geometry.Vector3{{X: 10}}})
	set.Push(Result{Energy: -5, Coords: []geometry.Vector3{{X: 20}}})
	require.Len(t, set.Results, 2)
	require.Equal(t, -5.0, set.Results[0].Energy)
}

func TestResultSetDedupesNearbyClusters(t *testing.T) {
	set := NewResultSet(10, 1.0)
	set.Push(Result{Energy: -1, Coords: []geometry.Vector3{{X: 0}}})
	set.Push(Result{Energy: -5, Coords: []geometry.Vector3{{X: 0.1}}})
	require.Len(t, set.Results, 1)
	require.Equal(t, -5.0, set.Results[0].Energy)
}

// A new, better-energy result must evict every existing entry within its
// cluster radius, not just the first one found scanning in insertion order.
// A (-3, x=0) and B (-1, x=1.9) sit 1.9A apart, outside a 1.0A radius of
// each other, but a new C (-10, x=0.95) is within 1.0A of both.
func TestResultSetPushEvictsAllDominatedEntriesNotJustFirst(t *testing.T) {
	set := NewResultSet(10, 1.0)
	set.Push(Result{Energy: -3, Coords: []geometry.Vector3{{X: 0}}})
	set.Push(Result{Energy: -1, Coords: []geometry.Vector3{{X: 1.9}}})
	require.Len(t, set.Results, 2)

	set.Push(Result{Energy: -10, Coords: []geometry.Vector3{{X: 0.95}}})
	require.Len(t, set.Results, 1)
	require.Equal(t, -10.0, set.Results[0].Energy)
}

// A worse-or-equal-energy candidate within radius of an existing, better
// entry must be discarded outright rather than replacing it.
func TestResultSetPushDiscardsWorseCandidateNearBetterEntry(t *testing.T) {
	set := NewResultSet(10, 1.0)
	set.Push(Result{Energy: -5, Coords: []geometry.Vector3{{X: 0}}})
	set.Push(Result{Energy: -2, Coords: []geometry.Vector3{{X: 0.2}}})
	require.Len(t, set.Results, 1)
	require.Equal(t, -5.0, set.Results[0].Energy)
}
