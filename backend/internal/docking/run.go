package docking

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarat-asymmetrica/jdock/backend/internal/conformation"
	"github.com/sarat-asymmetrica/jdock/backend/internal/forest"
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
	"github.com/sarat-asymmetrica/jdock/backend/internal/logging"
	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
	"github.com/sarat-asymmetrica/jdock/backend/internal/report"
	"github.com/sarat-asymmetrica/jdock/backend/internal/search"
	"github.com/sarat-asymmetrica/jdock/backend/internal/workpool"
)

// pose is one scored conformation awaiting output, either a docked result
// from the Monte Carlo search or the ligand's as-parsed input pose.
type pose struct {
	conf        ligand.Conformation
	coords      []geometry.Vector3
	intra       float64
	inter       float64
	total       float64
	normalized  float64
	rf          float64
	fromDocking bool
}

// Run enumerates every configured ligand, docks (or scores) each in turn,
// and writes the run-level summary CSV alongside the per-ligand outputs
// internal/docking.dockOne produces. Ligands are processed sequentially;
// only the work within a single ligand is fanned across Pool, matching
// original_source/src/main.cpp's single driver loop around a shared
// io_service_pool.
func (e *Engine) Run() error {
	paths, err := enumerateLigands(e.Config.LigandPaths)
	if err != nil {
		return err
	}
	e.Logger.Info("enumerated input ligands", logging.Int("count", len(paths)))

	var rows []report.RunRow
	for i, path := range paths {
		stem := ligandStem(path)
		row, err := e.dockOne(path)
		if err != nil {
			e.Logger.Error("skipping ligand after error",
				logging.String("ligand", stem), logging.Err(err))
			continue
		}
		e.Logger.Info("scored ligand",
			logging.Int("index", i+1),
			logging.String("ligand", stem),
			logging.Int("atoms", row.Atoms),
			logging.Int("torsions", row.Torsions),
			logging.Int("confs", row.NumConfs),
			logging.Float64("idock_score", row.IdockScore))
		rows = append(rows, row)
	}

	stem := strings.TrimSuffix(filepath.Base(e.Config.ReceptorPath), filepath.Ext(e.Config.ReceptorPath))
	summaryPath := filepath.Join(e.Config.OutPath, stem+".csv")
	f, err := os.Create(summaryPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteRunSummary(f, rows, e.Config.RFScore)
}

// dockOne docks or scores a single ligand file, writing its output PDBQT
// and per-residue CSV (when at least one conformation is produced) and
// returning its run-summary row.
func (e *Engine) dockOne(path string) (report.RunRow, error) {
	cfg := e.Config
	stem := ligandStem(path)
	outputPath := filepath.Join(cfg.OutPath, filepath.Base(path))

	if cached, ok, err := checkCache(path, outputPath); err != nil {
		return report.RunRow{}, err
	} else if ok {
		lig, err := e.parseLigand(path)
		if err != nil {
			return report.RunRow{}, err
		}
		return report.RunRow{
			Ligand:     stem,
			Atoms:      lig.NumHeavyAtoms,
			Torsions:   lig.NumActiveTorsions,
			NumConfs:   cached.numConfs,
			IdockScore: cached.idockScore,
			RFScore:    cached.rfScore,
		}, nil
	}

	lig, err := e.parseLigand(path)
	if err != nil {
		return report.RunRow{}, err
	}

	if !cfg.PreciseMode {
		if err := e.ensureGridMaps(lig); err != nil {
			return report.RunRow{}, err
		}
	}

	eval := conformation.NewEvaluator(lig, e.Receptor, e.Scoring)

	var docked []pose
	if !cfg.ScoreOnly {
		docked, err = e.searchLigand(eval, lig)
		if err != nil {
			return report.RunRow{}, err
		}
	}

	poses := docked
	if cfg.ScoreOnly || cfg.ScoreDock {
		p, err := e.scoreInputPose(eval, lig, stem)
		if err != nil {
			return report.RunRow{}, err
		}
		poses = append([]pose{p}, poses...)
	}

	row := report.RunRow{Ligand: stem, Atoms: lig.NumHeavyAtoms, Torsions: lig.NumActiveTorsions, NumConfs: len(poses)}
	if len(poses) == 0 {
		return row, nil
	}

	if len(docked) > 0 {
		row.IdockScore = docked[0].normalized
		row.RFScore = docked[0].rf
	}
	// The self-scored input pose, when present, overrides the reported
	// score even if docking also ran: it is always the front element.
	if cfg.ScoreOnly || cfg.ScoreDock {
		row.IdockScore = poses[0].normalized
		row.RFScore = poses[0].rf
	}

	mask := map[pdbqt.ResidueKey]bool{}
	confs := make([]report.LigandConformation, len(poses))
	for i, p := range poses {
		perRes := eval.PerResidueEnergy(p.conf)
		for k, v := range perRes {
			if v != 0 {
				mask[k] = true
			}
		}
		label := strconv.Itoa(i + 1)
		if !p.fromDocking {
			label += "(Input)"
		}
		confs[i] = report.LigandConformation{
			Label:            label,
			PerResidueEnergy: perRes,
			IntraLigandFree:  p.intra,
			InterLigandFree:  p.inter,
			TotalFree:        p.total,
			NormalizedFree:   p.normalized,
			RFScore:          p.rf,
		}
	}

	if err := e.writeOutputs(outputPath, stem, lig, poses, confs, mask); err != nil {
		return report.RunRow{}, err
	}

	return row, nil
}

func (e *Engine) parseLigand(path string) (*ligand.Ligand, error) {
	mol, err := parseMoleculeFile(path)
	if err != nil {
		return nil, err
	}
	return ligand.Build(mol), nil
}

// ensureGridMaps creates and populates grid maps for any XS type the
// ligand needs that the receptor doesn't already have mapped, fanning the
// per-z-slab population out across Pool with a workpool.Counter barrier,
// matching original_source/src/main.cpp's on-demand grid map creation.
func (e *Engine) ensureGridMaps(lig *ligand.Ligand) error {
	xs := e.Receptor.UnmappedTypes(lig.XSPresent)
	if len(xs) == 0 {
		return nil
	}
	e.Receptor.Precalculate(xs, e.Scoring)

	var counter workpool.Counter
	counter.Init(e.Receptor.NumProbes[2])
	for z := 0; z < e.Receptor.NumProbes[2]; z++ {
		z := z
		e.Pool.Post(func() error {
			e.Receptor.Populate(xs, z, e.Scoring)
			counter.Increment()
			return nil
		})
	}
	if err := counter.Wait(context.Background()); err != nil {
		return err
	}
	return e.Pool.Wait()
}

// searchLigand runs cfg.Tasks independent Monte Carlo tasks, each seeded
// in a fixed sequential order off the engine's root RNG so a run is
// reproducible regardless of goroutine scheduling, then merges every
// task's result set on the calling goroutine (the single-threaded merge
// phase) and scores each surviving pose.
func (e *Engine) searchLigand(eval *conformation.Evaluator, lig *ligand.Ligand) ([]pose, error) {
	cfg := e.Config
	mcCfg := search.DefaultConfig()

	taskResults := make([]*search.ResultSet, cfg.Tasks)
	var counter workpool.Counter
	counter.Init(cfg.Tasks)
	for i := 0; i < cfg.Tasks; i++ {
		i := i
		seed := e.rng.Int63()
		e.Pool.Post(func() error {
			taskResults[i] = search.RunTask(eval, seed, mcCfg)
			counter.Increment()
			return nil
		})
	}
	if err := counter.Wait(context.Background()); err != nil {
		return nil, err
	}
	if err := e.Pool.Wait(); err != nil {
		return nil, err
	}

	merged := search.NewResultSet(cfg.Conformations, mcCfg.RMSDClusterRadius)
	for _, rs := range taskResults {
		merged.Merge(rs)
	}
	if len(merged.Results) == 0 {
		return nil, nil
	}

	bestIntra, _ := eval.EnergyBreakdown(merged.Results[0].Conformation)
	poses := make([]pose, len(merged.Results))
	for i, r := range merged.Results {
		intra, inter := eval.EnergyBreakdown(r.Conformation)
		total := intra + inter
		p := pose{
			conf:        r.Conformation,
			coords:      r.Coords,
			intra:       intra,
			inter:       inter,
			total:       total,
			normalized:  (total - bestIntra) * lig.FlexibilityPenalty,
			fromDocking: true,
		}
		if cfg.RFScore {
			p.rf = e.Forest.Predict(forest.Descriptors(e.Receptor.Atoms, lig.Atoms, p.coords))
		}
		poses[i] = p
	}
	return poses, nil
}

// scoreInputPose scores the ligand's as-parsed pose against the scoring
// function without any search or optimization, for --score_only and
// --score_dock. Its normalized score is the intermolecular energy alone,
// scaled by the flexibility penalty — there is no "best docked
// conformation" to calibrate against as there is for a searched pose.
//
// If the input pose has a heavy atom outside the docking box, that is not
// a process failure (spec.md §7): the pose is still emitted, with an
// infinite intermolecular energy and normalized score, exactly as
// non-precise box-membership scoring rejects an out-of-box move during
// search but still reports it.
func (e *Engine) scoreInputPose(eval *conformation.Evaluator, lig *ligand.Ligand, ligandName string) (pose, error) {
	conf := lig.InputConformation()
	coords := lig.Apply(conf)

	if !e.Config.PreciseMode && eval.OutOfBox(coords) {
		p := pose{
			conf:       conf,
			coords:     coords,
			intra:      0,
			inter:      math.Inf(1),
			total:      conformation.VCutoff,
			normalized: math.Inf(1),
		}
		if e.Config.RFScore {
			p.rf = e.Forest.Predict(forest.Descriptors(e.Receptor.Atoms, lig.Atoms, p.coords))
		}
		return p, nil
	}

	intra, inter := eval.EnergyBreakdown(conf)
	total := intra + inter
	p := pose{
		conf:       conf,
		coords:     coords,
		intra:      intra,
		inter:      inter,
		total:      total,
		normalized: inter * lig.FlexibilityPenalty,
	}
	if e.Config.RFScore {
		p.rf = e.Forest.Predict(forest.Descriptors(e.Receptor.Atoms, lig.Atoms, p.coords))
	}
	return p, nil
}

func (e *Engine) writeOutputs(outputPath, stem string, lig *ligand.Ligand, poses []pose, confs []report.LigandConformation, mask map[pdbqt.ResidueKey]bool) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	for i, p := range poses {
		if err := report.WriteModel(out, i+1, lig.Atoms, p.coords, p.normalized, p.rf, e.Config.RFScore); err != nil {
			return err
		}
	}

	csvPath := filepath.Join(e.Config.OutPath, stem+".csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	return report.WriteLigandCSV(csvFile, e.Receptor.Residues, mask, confs, e.Config.RFScore)
}
