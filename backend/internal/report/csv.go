// Package report writes the per-ligand and per-run CSV summaries, matching
// original_source/src/main.cpp's CSV-writing block column-for-column and
// blank-line-for-blank-line, including the REMARK-compatible score records
// idock-family tools rely on to skip a completed ligand on a repeat run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
)

// LigandConformation is one scored, optionally RF-rescored pose, in the
// column order the per-ligand CSV lists conformations.
type LigandConformation struct {
	Label            string // "1", "2", ... or "1(Input)" for a scored input pose
	PerResidueEnergy map[pdbqt.ResidueKey]float64
	IntraLigandFree  float64
	InterLigandFree  float64
	TotalFree        float64
	NormalizedFree   float64
	RFScore          float64 // valid only when RFScore is enabled for the run
}

// WriteLigandCSV writes the per-ligand residue-contact and summary-energy
// table. residues lists every receptor residue in file order; mask
// restricts output to residues that at least one conformation actually
// contacted (main.cpp's "only where mask[k] is true" rule).
func WriteLigandCSV(w io.Writer, residues []pdbqt.ResidueKey, mask map[pdbqt.ResidueKey]bool, confs []LigandConformation, rfScore bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"Chain ID", "Residue name", "Residue sequence"}
	for _, c := range confs {
		header = append(header, "Conf "+c.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, res := range residues {
		if !mask[res] {
			continue
		}
		row := []string{string(res.Chain), res.ResName, strconv.Itoa(res.ResSeq)}
		for _, c := range confs {
			v, ok := c.PerResidueEnergy[res]
			if !ok {
				row = append(row, "")
			} else {
				row = append(row, formatEnergy(v))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}

	if rfScore {
		row := []string{"Binding Affinity", "", ""}
		for _, c := range confs {
			row = append(row, formatEnergy(c.RFScore))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	summaryRow := func(label string, get func(LigandConformation) float64) error {
		row := []string{label, "", ""}
		for _, c := range confs {
			row = append(row, formatEnergy(get(c)))
		}
		return cw.Write(row)
	}

	if err := summaryRow("Intra-Ligand Free", func(c LigandConformation) float64 { return c.IntraLigandFree }); err != nil {
		return err
	}
	if err := summaryRow("Inter-Ligand Free", func(c LigandConformation) float64 { return c.InterLigandFree }); err != nil {
		return err
	}
	if err := summaryRow("Total Free Energy", func(c LigandConformation) float64 { return c.TotalFree }); err != nil {
		return err
	}
	if err := summaryRow("Normalized Total Free Energy", func(c LigandConformation) float64 { return c.NormalizedFree }); err != nil {
		return err
	}

	return nil
}

func formatEnergy(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RunRow is one line of the per-run summary CSV.
type RunRow struct {
	Ligand     string
	Atoms      int
	Torsions   int
	NumConfs   int
	IdockScore float64
	RFScore    float64
}

// WriteRunSummary writes the whole-run CSV, one row per ligand.
func WriteRunSummary(w io.Writer, rows []RunRow, rfScore bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"Ligand", "Atoms", "Torsions", "nConfs", "idock score (kcal/mol)"}
	if rfScore {
		header = append(header, "RF-Score (pKd)")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.Ligand,
			strconv.Itoa(r.Atoms),
			strconv.Itoa(r.Torsions),
			strconv.Itoa(r.NumConfs),
			formatEnergy(r.IdockScore),
		}
		if rfScore {
			row = append(row, formatEnergy(r.RFScore))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write run row for %q: %w", r.Ligand, err)
		}
	}

	return nil
}
