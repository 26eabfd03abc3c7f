package docking

import (
	"os"

	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
)

// parseMoleculeFile opens path and parses the molecule up to the first
// ENDMDL (or EOF) from it, matching original_source/src/main.cpp's one-structure-
// per-file assumption for receptors and non-multi-conformer ligands.
func parseMoleculeFile(path string) (*pdbqt.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pdbqt.ParseMolecule(f)
}
