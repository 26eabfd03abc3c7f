package pdbqt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const mixedReceptor = `ATOM      1  C1  ALA A   1       0.000   0.000   0.000  0.00  0.00    +0.000 C
ATOM      2  O1  HOH A   2       5.000   0.000   0.000  0.00  0.00    +0.000 OA
ATOM      3  N1  GLY A   3       8.000   0.000   0.000  0.00  0.00    -0.300 NA
TER
`

func TestFilterNonStandardResiduesDropsWater(t *testing.T) {
	mol, err := ParseMolecule(strings.NewReader(mixedReceptor))
	require.NoError(t, err)
	require.Len(t, mol.Atoms, 3)

	filtered := FilterNonStandardResidues(mol)
	require.Len(t, filtered.Atoms, 2)
	for _, a := range filtered.Atoms {
		require.True(t, IsStandardResidue(a.ResName))
	}
	require.Equal(t, 0, filtered.Frames[0].AtomBegin)
	require.Equal(t, 2, filtered.Frames[0].AtomEnd)
}
