// Package docking wires the leaf packages together into the per-run driver
// spec.md §2 and §5 describe: precalculate the scoring function once,
// parse the receptor once, then for each ligand populate grid maps, run
// the Monte Carlo search, merge results, post-process, and write output —
// sequentially across ligands, with a counted work-pool barrier between
// each phase within a ligand.
//
// Grounded directly on original_source/src/main.cpp's driver loop: option
// validation happens in internal/config before this package is reached,
// and the per-ligand CSV table this package produces matches main.cpp's
// column layout (internal/report writes the CSV, this package owns ordering
// and cache-skip); console progress is a structured log line per ligand,
// not a table.
package docking

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/sarat-asymmetrica/jdock/backend/internal/config"
	"github.com/sarat-asymmetrica/jdock/backend/internal/forest"
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/logging"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/receptor"
	"github.com/sarat-asymmetrica/jdock/backend/internal/scoring"
	"github.com/sarat-asymmetrica/jdock/backend/internal/workpool"
)

// unboundedBoxSize is substituted for the docking box when the run doesn't
// need one (--score_only combined with --precise_mode scores the input
// pose directly against the scoring function and never tests box
// membership in any meaningful sense), mirroring
// original_source/src/receptor.hpp's boxless constructor overload without
// adding a second Receptor constructor of our own.
const unboundedBoxSize = 1e7

// Engine holds everything constructed once per run and shared read-only
// (after its own construction/population phase) across every ligand: the
// scoring function, the receptor, the optional rescoring forest, the work
// pool, and the single root RNG that seeds every Monte Carlo task in a
// fixed, reproducible order (spec.md §5 "Determinism").
type Engine struct {
	Config   *config.Config
	Logger   logging.Logger
	Pool     *workpool.Pool
	Scoring  *scoring.Function
	Receptor *receptor.Receptor
	Forest   *forest.Forest

	// RunID tags every log line this Engine emits, for correlating one
	// run's entries in a shared log aggregator.
	RunID string

	rng *rand.Rand
}

// New builds an Engine: parses the receptor, precalculates the scoring
// function over every atom-type pair (fanned out across the work pool,
// barrier-joined, matching spec.md §4.1), and optionally trains the
// rescoring forest. cfg must already be validated via cfg.Validate.
func New(cfg *config.Config, logger logging.Logger) (*Engine, error) {
	pool := workpool.New(cfg.Threads)

	runID := uuid.New().String()
	logger = logger.With(logging.String("run_id", runID))

	logger.Info("parsing receptor", logging.String("path", cfg.ReceptorPath))
	recMol, err := parseMoleculeFile(cfg.ReceptorPath)
	if err != nil {
		return nil, err
	}
	if cfg.RemoveNonstd {
		recMol = pdbqt.FilterNonStandardResidues(recMol)
	}

	boxRequired := !(cfg.ScoreOnly && cfg.PreciseMode)
	center := geometry.Vector3{X: cfg.CenterX, Y: cfg.CenterY, Z: cfg.CenterZ}
	size := geometry.Vector3{X: cfg.SizeX, Y: cfg.SizeY, Z: cfg.SizeZ}
	if !boxRequired {
		center = geometry.Vector3{}
		size = geometry.Vector3{X: unboundedBoxSize, Y: unboundedBoxSize, Z: unboundedBoxSize}
	}

	rec := receptor.New(recMol, center, size, cfg.Granularity, cfg.PreciseMode)
	logger.Info("parsed receptor",
		logging.Int("atoms", len(rec.Atoms)),
		logging.Int("residues", len(rec.Residues)))

	logger.Info("precalculating scoring function", logging.Int("atom_types", int(scoring.NumTypes)))
	sf := scoring.NewFunction()
	if err := precalculateParallel(sf, pool); err != nil {
		return nil, err
	}

	var rf *forest.Forest
	if cfg.RFScore {
		logger.Info("training random forest", logging.Int("trees", cfg.Trees))
		rf, err = forest.Train(forest.DefaultTrainingSet, cfg.Trees, cfg.Seed, pool)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Scoring:  sf,
		Receptor: rec,
		Forest:   rf,
		RunID:    runID,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// precalculateParallel fans the scoring function's precalculation out
// across pool, one task per unordered atom-type pair, barrier-joined via
// pool.Wait the way spec.md §4.1 describes.
func precalculateParallel(sf *scoring.Function, pool *workpool.Pool) error {
	all := make([]scoring.XSType, scoring.NumTypes)
	for i := range all {
		all[i] = scoring.XSType(i)
	}
	for _, pair := range scoring.Pairs(all) {
		t0, t1 := pair[0], pair[1]
		pool.Post(func() error {
			sf.PrecalculatePair(t0, t1)
			return nil
		})
	}
	return pool.Wait()
}
