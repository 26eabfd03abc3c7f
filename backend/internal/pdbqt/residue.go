package pdbqt

import "strconv"

// standardAminoAcids is the canonical twenty-residue alphabet (plus the
// common histidine/cysteine protonation-state aliases PDBQT files carry)
// spec.md §4.2's remove_nonstd flag tests residue names against.
var standardAminoAcids = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"HID": true, "HIE": true, "HIP": true, "CYX": true, "CYM": true,
}

// IsStandardResidue reports whether name is one of the twenty canonical
// amino acids (including common alternate protonation-state names).
func IsStandardResidue(name string) bool {
	return standardAminoAcids[name]
}

// FilterNonStandardResidues returns a copy of mol with every atom
// belonging to a non-standard residue dropped, for the receptor's
// remove_nonstd option. Only meaningful for a single-frame (receptor)
// molecule: it rebuilds Frames[0]'s atom range and Residues list but does
// not attempt to renumber a ligand's rotatable-bond tree.
func FilterNonStandardResidues(mol *Molecule) *Molecule {
	out := &Molecule{Torsdof: mol.Torsdof}
	residueSeen := map[string]bool{}

	for _, a := range mol.Atoms {
		if !IsStandardResidue(a.ResName) {
			continue
		}
		out.Atoms = append(out.Atoms, a)
		key := string(a.Chain) + ":" + strconv.Itoa(a.ResSeq)
		if !residueSeen[key] {
			residueSeen[key] = true
			out.Residues = append(out.Residues, ResidueKey{a.Chain, a.ResSeq, a.ResName})
		}
	}

	out.Frames = []Frame{{Parent: -1, AtomBegin: 0, AtomEnd: len(out.Atoms)}}
	return out
}
