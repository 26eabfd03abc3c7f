// Package search implements the Monte Carlo conformational search: random
// pose generation, Metropolis-criterion perturb/accept steps each followed
// by a BFGS local optimization, and an RMSD-clustering result set that
// merges per-task output into a ranked list of distinct binding poses.
//
// The Metropolis accept/reject loop structure is grounded on the teacher's
// backend/internal/sampling/monte_carlo.go (MonteCarloVedic's temperature-
// scaled acceptance test), with the golden-ratio/Vedic bias term dropped —
// spec.md's acceptance criterion is energy-only, and original_source has no
// such bias either.
package search

import (
	"math"
	"math/rand"

	"github.com/sarat-asymmetrica/jdock/backend/internal/conformation"
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
	"github.com/sarat-asymmetrica/jdock/backend/internal/optimize"
	"github.com/sarat-asymmetrica/jdock/backend/internal/receptor"
)

// Config controls one Monte Carlo task's sampling behavior.
type Config struct {
	NumSteps          int     // perturb/optimize/accept iterations after the initial pose
	Temperature       float64 // Metropolis temperature, kcal/mol
	TranslationStep   float64 // Angstrom
	RotationStep      float64 // radians
	TorsionStep       float64 // radians
	MaxResultsPerTask int     // cap before merge
	RMSDClusterRadius float64 // Angstrom; poses closer than this are the same cluster
	Optimize          optimize.Config
}

// DefaultConfig matches spec.md's documented Monte Carlo defaults.
func DefaultConfig() Config {
	return Config{
		NumSteps:          50,
		Temperature:       1.2,
		TranslationStep:   2.0,
		RotationStep:      0.5,
		TorsionStep:       0.8,
		MaxResultsPerTask: 20,
		RMSDClusterRadius: 2.0,
		Optimize:          optimize.DefaultConfig(),
	}
}

// Result is one locally-optimized pose found during search.
type Result struct {
	Conformation ligand.Conformation
	Energy       float64
	Coords       []geometry.Vector3
}

// ResultSet holds a capped, RMSD-deduplicated collection of Results sorted
// by ascending energy.
type ResultSet struct {
	Results       []Result
	MaxSize       int
	ClusterRadius float64
}

// NewResultSet returns an empty set with the given capacity and cluster
// radius.
func NewResultSet(maxSize int, clusterRadius float64) *ResultSet {
	return &ResultSet{MaxSize: maxSize, ClusterRadius: clusterRadius}
}

// Push inserts r into the set, maintaining ascending-energy order and the
// cluster invariant that no two kept results lie within ClusterRadius
// heavy-atom RMSD of each other. r is discarded outright if any existing
// result with same-or-better energy is already within ClusterRadius of it;
// otherwise r is inserted at its sorted position and every existing,
// worse-energy result within ClusterRadius of r is evicted, not just the
// first one found. Once the set exceeds MaxSize, the worst-energy results
// are dropped.
func (s *ResultSet) Push(r Result) {
	for _, existing := range s.Results {
		if existing.Energy <= r.Energy && rmsd(existing.Coords, r.Coords) < s.ClusterRadius {
			return
		}
	}

	pos := len(s.Results)
	for i, existing := range s.Results {
		if r.Energy < existing.Energy {
			pos = i
			break
		}
	}

	kept := make([]Result, 0, len(s.Results)+1)
	kept = append(kept, s.Results[:pos]...)
	kept = append(kept, r)
	for _, existing := range s.Results[pos:] {
		if rmsd(existing.Coords, r.Coords) < s.ClusterRadius {
			continue
		}
		kept = append(kept, existing)
	}
	s.Results = kept

	if len(s.Results) > s.MaxSize {
		s.Results = s.Results[:s.MaxSize]
	}
}

// Merge folds other into s, respecting s's MaxSize and ClusterRadius.
func (s *ResultSet) Merge(other *ResultSet) {
	for _, r := range other.Results {
		s.Push(r)
	}
}

func rmsd(a, b []geometry.Vector3) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		sum += geometry.DistanceSquared(a[i], b[i])
	}
	return math.Sqrt(sum / float64(len(a)))
}

// RunTask executes one independent Monte Carlo search: a random initial
// pose, BFGS refinement, then cfg.NumSteps perturb/refine/Metropolis-accept
// iterations, returning every distinct pose found.
func RunTask(eval *conformation.Evaluator, seed int64, cfg Config) *ResultSet {
	rng := rand.New(rand.NewSource(seed))
	out := NewResultSet(cfg.MaxResultsPerTask, cfg.RMSDClusterRadius)

	current := randomConformation(eval.Ligand, eval.Receptor, rng) // *receptor.Receptor satisfies the box-sampling need directly
	currentOpt := optimize.Minimize(eval, current, cfg.Optimize)
	current = currentOpt.Conformation
	currentEnergy := currentOpt.Energy
	out.Push(toResult(eval.Ligand, current, currentEnergy))

	for step := 0; step < cfg.NumSteps; step++ {
		candidate := perturb(current, cfg, rng)
		opt := optimize.Minimize(eval, candidate, cfg.Optimize)
		if !finite(opt.Energy) {
			continue
		}
		if accept(currentEnergy, opt.Energy, cfg.Temperature, rng) {
			current = opt.Conformation
			currentEnergy = opt.Energy
			out.Push(toResult(eval.Ligand, opt.Conformation, opt.Energy))
		}
	}

	return out
}

func toResult(l *ligand.Ligand, conf ligand.Conformation, energy float64) Result {
	return Result{Conformation: conf, Energy: energy, Coords: l.Apply(conf)}
}

func accept(currentEnergy, candidateEnergy, temperature float64, rng *rand.Rand) bool {
	if candidateEnergy <= currentEnergy {
		return true
	}
	p := math.Exp(-(candidateEnergy - currentEnergy) / temperature)
	return rng.Float64() < p
}

func randomConformation(l *ligand.Ligand, box *receptor.Receptor, rng *rand.Rand) ligand.Conformation {
	conf := l.NewConformation()
	conf.Position = box.RandomPointInBox(rng)
	conf.Orientation = geometry.RandomUnitQuaternion(rng)
	for i := range conf.Torsions {
		conf.Torsions[i] = (rng.Float64()*2 - 1) * math.Pi
	}
	return conf
}

func perturb(conf ligand.Conformation, cfg Config, rng *rand.Rand) ligand.Conformation {
	next := ligand.Conformation{
		Position:    conf.Position.Add(randomVector(rng, cfg.TranslationStep)),
		Orientation: conf.Orientation.ExpMapUpdate(randomVector(rng, cfg.RotationStep)),
		Torsions:    append([]float64(nil), conf.Torsions...),
	}
	for i := range next.Torsions {
		next.Torsions[i] += (rng.Float64()*2 - 1) * cfg.TorsionStep
	}
	return next
}

func randomVector(rng *rand.Rand, scale float64) geometry.Vector3 {
	return geometry.Vector3{
		X: (rng.Float64()*2 - 1) * scale,
		Y: (rng.Float64()*2 - 1) * scale,
		Z: (rng.Float64()*2 - 1) * scale,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
