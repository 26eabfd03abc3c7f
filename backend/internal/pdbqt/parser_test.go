package pdbqt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleLigand = `ROOT
ATOM      1  C1  LIG A   1      10.000  10.000  10.000  0.00  0.00    +0.000 C
ATOM      2  N1  LIG A   1      11.000  10.000  10.000  0.00  0.00    -0.300 NA
ENDROOT
BRANCH   1   3
ATOM      3  C2  LIG A   1      12.000  10.000  10.000  0.00  0.00    +0.000 C
ENDBRANCH   1   3
TORSDOF 1
TER
`

func TestParseMoleculeFrameTree(t *testing.T) {
	mol, err := ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	require.Len(t, mol.Atoms, 3)
	require.Len(t, mol.Frames, 2)

	require.Equal(t, -1, mol.Frames[0].Parent)
	require.Equal(t, 0, mol.Frames[0].AtomBegin)
	require.Equal(t, 2, mol.Frames[0].AtomEnd)

	require.Equal(t, 0, mol.Frames[1].Parent)
	require.Equal(t, 2, mol.Frames[1].AtomBegin)
	require.Equal(t, 3, mol.Frames[1].AtomEnd)
	require.Equal(t, 0, mol.Frames[1].RotorXAtom)
	require.Equal(t, 2, mol.Frames[1].RotorYAtom)

	require.Equal(t, 1, mol.Torsdof)
}

func TestParseAtomLineFields(t *testing.T) {
	mol, err := ParseMolecule(strings.NewReader(sampleLigand))
	require.NoError(t, err)
	a := mol.Atoms[1]
	require.Equal(t, "N1", a.Name)
	require.Equal(t, "LIG", a.ResName)
	require.InDelta(t, 11.0, a.Coord.X, 1e-9)
	require.InDelta(t, -0.3, a.Charge, 1e-9)
	require.Equal(t, "NA", a.ADType)
}

func TestRemarkScoreRoundTrip(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteRemarkScore(&buf, 921, "idock score", -7.35))
	value, err := ReadRemarkScore(strings.TrimRight(buf.String(), "\n"))
	require.NoError(t, err)
	require.InDelta(t, -7.35, value, 1e-6)
}
