package receptor

import (
	"strings"
	"testing"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
	"github.com/stretchr/testify/require"
)

const sampleReceptor = `ATOM      1  C1  ALA A   1       0.000   0.000   0.000  0.00  0.00    +0.000 C
ATOM      2  N1  ALA A   1       1.000   0.000   0.000  0.00  0.00    -0.300 NA
TER
`

func TestIndexCoordRoundTrip(t *testing.T) {
	mol, err := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	require.NoError(t, err)

	rec := New(mol, geometry.Vector3{}, geometry.Vector3{X: 10, Y: 10, Z: 10}, 0.5, false)
	for _, idx := range [][3]int{{0, 0, 0}, {3, 4, 5}, {rec.NumProbes[0] - 1, 0, 0}} {
		c := rec.Coord(idx)
		got := rec.Index(c)
		require.Equal(t, idx, got)
	}
}

func TestWithinBox(t *testing.T) {
	mol, _ := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	rec := New(mol, geometry.Vector3{}, geometry.Vector3{X: 10, Y: 10, Z: 10}, 0.5, false)
	require.True(t, rec.Within(geometry.Vector3{}))
	require.False(t, rec.Within(geometry.Vector3{X: 1000}))
}

func TestPopulateMatchesPreciseMode(t *testing.T) {
	mol, _ := pdbqt.ParseMolecule(strings.NewReader(sampleReceptor))
	rec := New(mol, geometry.Vector3{}, geometry.Vector3{X: 4, Y: 4, Z: 4}, 0.5, false)
	sf := scoring.NewFunction()
	types := []scoring.XSType{scoring.CHydrophobic}
	rec.Precalculate(types, sf)
	for z := 0; z < rec.NumProbes[2]; z++ {
		rec.Populate(types, z, sf)
	}

	precise := New(mol, geometry.Vector3{}, geometry.Vector3{X: 4, Y: 4, Z: 4}, 0.5, true)
	precise.Precalculate(types, sf)

	probe := geometry.Vector3{X: 0.5, Y: 0, Z: 0}
	idx := rec.Index(probe)
	mapped := rec.EMap(scoring.CHydrophobic, rec.Flat(idx))
	directAtGridPoint := precise.E(scoring.CHydrophobic, rec.Coord(idx), sf)
	require.InDelta(t, directAtGridPoint, mapped, 1e-9)
}
