package report

import (
	"fmt"
	"io"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
)

// WriteModel writes one MODEL block for a docked conformation: the
// REMARK 921/927 score records at the fixed column-55-width-8 offset
// original_source/src/main.cpp reads back on a cache hit, followed by the
// ligand's atoms at their posed coordinates, and a closing ENDMDL.
func WriteModel(w io.Writer, modelIndex int, atoms []pdbqt.Atom, coords []geometry.Vector3, idockScore float64, rfScore float64, haveRFScore bool) error {
	if _, err := fmt.Fprintf(w, "MODEL %8d\n", modelIndex); err != nil {
		return err
	}
	if err := pdbqt.WriteRemarkScore(w, 921, "idock score", idockScore); err != nil {
		return err
	}
	if haveRFScore {
		if err := pdbqt.WriteRemarkScore(w, 927, "RF-Score", rfScore); err != nil {
			return err
		}
	}

	for i, a := range atoms {
		posed := a
		posed.Coord = coords[i]
		if err := pdbqt.WriteAtom(w, posed); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "ENDMDL")
	return err
}
