// Package scoring implements the empirical pairwise potential used to score
// receptor-ligand atom interactions, precalculated into a dense lookup table
// indexed by atom-type pair and squared distance bucket.
//
// The parameter-table style (named per-element constants collected into a
// lookup structure) is grounded on the teacher's
// backend/internal/physics/force_field.go (ljParams, backboneBondParams);
// the five-term potential itself and its XS atom-type system follow
// spec.md's scoring-function module, generalized from the teacher's
// backbone-only Lennard-Jones/electrostatic pair to the cross-type table a
// docking scoring function needs.
package scoring

// XSType is an empirical "XScore"-style atom type used by the scoring
// function: a coarse class combining element and hybridization/H-bonding
// role, independent of force-field-specific partial charges.
type XSType int

const (
	CHydrophobic XSType = iota // sp3/sp2 carbon, no heteroatom neighbor
	CPolar                     // carbon bonded to a heteroatom
	NPolar                     // nitrogen, neither donor nor acceptor
	NDonor                     // nitrogen hydrogen-bond donor
	NAcceptor                  // nitrogen hydrogen-bond acceptor
	NDonorAcceptor             // nitrogen both donor and acceptor
	OAcceptor                  // oxygen hydrogen-bond acceptor
	ODonor                     // oxygen hydrogen-bond donor
	ODonorAcceptor             // oxygen both donor and acceptor
	OPolar                     // oxygen, neither donor nor acceptor
	SPolar                     // sulfur
	PPolar                     // phosphorus
	FHalogen                   // fluorine
	ClHalogen                  // chlorine
	MetalDonor                 // metal ion, treated as a donor

	NumTypes
)

var names = [NumTypes]string{
	CHydrophobic: "C_H", CPolar: "C_P",
	NPolar: "N_P", NDonor: "N_D", NAcceptor: "N_A", NDonorAcceptor: "N_DA",
	OAcceptor: "O_A", ODonor: "O_D", ODonorAcceptor: "O_DA", OPolar: "O_P",
	SPolar: "S_P", PPolar: "P_P",
	FHalogen: "F_H", ClHalogen: "Cl_H", MetalDonor: "Met_D",
}

// String returns the XScore-style short name for t.
func (t XSType) String() string {
	if t < 0 || t >= NumTypes {
		return "?"
	}
	return names[t]
}

// covalentRadius is used to derive the optimal surface distance for the
// hydrophobic and hydrogen-bonding ramps, in Angstrom.
var covalentRadius = [NumTypes]float64{
	CHydrophobic: 0.77, CPolar: 0.77,
	NPolar: 0.75, NDonor: 0.75, NAcceptor: 0.75, NDonorAcceptor: 0.75,
	OAcceptor: 0.73, ODonor: 0.73, ODonorAcceptor: 0.73, OPolar: 0.73,
	SPolar: 1.02, PPolar: 1.06,
	FHalogen: 0.71, ClHalogen: 0.99, MetalDonor: 1.30,
}

// IsHydrophobic reports whether t contributes to the hydrophobic term.
func (t XSType) IsHydrophobic() bool {
	return t == CHydrophobic
}

// IsHBDonor reports whether t can donate a hydrogen bond.
func (t XSType) IsHBDonor() bool {
	switch t {
	case NDonor, NDonorAcceptor, ODonor, ODonorAcceptor, MetalDonor:
		return true
	default:
		return false
	}
}

// IsHBAcceptor reports whether t can accept a hydrogen bond.
func (t XSType) IsHBAcceptor() bool {
	switch t {
	case NAcceptor, NDonorAcceptor, OAcceptor, ODonorAcceptor:
		return true
	default:
		return false
	}
}

// ParseElement maps a PDBQT AutoDock atom type string (e.g. "A", "OA",
// "NA", "N", "SA", "Cl") to an XSType. Any other type string, including the
// hydrogen types "H" and "HD", falls back to CHydrophobic and is scored as a
// hydrophobic carbon.
func ParseElement(adType string) XSType {
	switch adType {
	case "C", "A":
		return CHydrophobic
	case "N":
		return NPolar
	case "NA":
		return NAcceptor
	case "NS":
		return NDonorAcceptor
	case "OA", "O":
		return OAcceptor
	case "OS":
		return ODonorAcceptor
	case "S", "SA":
		return SPolar
	case "P":
		return PPolar
	case "F":
		return FHalogen
	case "Cl", "CL":
		return ClHalogen
	case "Mg", "MG", "Ca", "CA", "Mn", "MN", "Fe", "FE", "Zn", "ZN":
		return MetalDonor
	default:
		return CHydrophobic
	}
}
