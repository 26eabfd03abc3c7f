// Package forest implements the RF-Score-style random forest rescorer: a
// 36-feature protein-ligand atom-pair-count descriptor, regression trees
// trained on those descriptors against a reference affinity panel, and a
// forest that averages the trees' predictions into a rescored binding
// affinity (pKd) independent of the physics-based scoring function.
//
// No teacher file implements anything like this (the teacher has no
// ensemble-regression component); the parallel-fan-out shape for training
// many trees at once is grounded on backend/internal/sampling/ensemble.go's
// goroutine-per-member pattern, generalized to use internal/workpool
// instead of an ad hoc WaitGroup.
package forest

import (
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
)

// proteinElements and ligandElements are the coarse element classes the
// RF-Score descriptor counts pairs over: four protein-side elements by nine
// ligand-side elements gives the 36 features.
var proteinElements = [4]string{"C", "N", "O", "S"}
var ligandElements = [9]string{"C", "N", "O", "F", "P", "S", "Cl", "Br", "I"}

// NumFeatures is the descriptor length: len(proteinElements)*len(ligandElements).
const NumFeatures = 36

// descriptorCutoff is the distance, in Angstrom, within which a
// protein-ligand atom pair contributes to its feature's count.
const descriptorCutoff = 12.0

// elementOf extracts the coarse element symbol from an AutoDock PDBQT atom
// type string, collapsing donor/acceptor/aromatic variants (e.g. "NA",
// "OA", "A") to their base element.
func elementOf(adType string) string {
	switch adType {
	case "C", "A":
		return "C"
	case "N", "NA", "NS":
		return "N"
	case "O", "OA", "OS":
		return "O"
	case "S", "SA":
		return "S"
	case "F":
		return "F"
	case "P":
		return "P"
	case "Cl", "CL":
		return "Cl"
	case "Br", "BR":
		return "Br"
	case "I":
		return "I"
	default:
		return ""
	}
}

// Descriptors computes the 36-element RF-Score feature vector for a
// ligand's atoms (in a given pose) against a receptor's atoms.
func Descriptors(receptorAtoms []pdbqt.Atom, ligandAtoms []pdbqt.Atom, ligandCoords []geometry.Vector3) [NumFeatures]float64 {
	var out [NumFeatures]float64

	proteinIndex := map[string]int{}
	for i, e := range proteinElements {
		proteinIndex[e] = i
	}
	ligandIndex := map[string]int{}
	for i, e := range ligandElements {
		ligandIndex[e] = i
	}

	for li, la := range ligandAtoms {
		lElem := elementOf(la.ADType)
		lj, ok := ligandIndex[lElem]
		if !ok {
			continue
		}
		coord := ligandCoords[li]
		for _, ra := range receptorAtoms {
			pElem := elementOf(ra.ADType)
			pi, ok := proteinIndex[pElem]
			if !ok {
				continue
			}
			d2 := geometry.DistanceSquared(coord, ra.Coord)
			if d2 > descriptorCutoff*descriptorCutoff {
				continue
			}
			out[pi*len(ligandElements)+lj]++
		}
	}

	return out
}
