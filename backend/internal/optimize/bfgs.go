// Package optimize implements a full (non-limited-memory) BFGS local
// optimizer over a ligand pose's translation, rotation and torsion
// parameters, with a quaternion exponential-map update for the rotational
// component and a backtracking Armijo line search.
//
// Grounded on the teacher's
// backend/internal/optimization/quaternion_lbfgs.go: the overall
// minimize-loop shape, the Armijo backtracking line search
// (armijoWolfeLineSearch) and the non-finite-step rejection are carried
// over directly. The limited-memory two-loop recursion is replaced with a
// dense Hessian-inverse approximation updated by the classical BFGS rank-2
// formula (Nocedal & Wright, eq. 6.17), using gonum.org/v1/gonum/mat for the
// matrix algebra the teacher's version did by hand with []float64 loops.
package optimize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sarat-asymmetrica/jdock/backend/internal/conformation"
	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
	"github.com/sarat-asymmetrica/jdock/backend/internal/ligand"
)

// Config controls the optimizer's stopping criteria and line search.
type Config struct {
	MaxIterations int     // teacher default: 30
	GradientTol   float64 // stop when ||gradient|| falls below this
	ArmijoC1      float64 // sufficient-decrease constant
	InitialStep   float64
}

// DefaultConfig matches spec.md's documented BFGS defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 30,
		GradientTol:   1e-5,
		ArmijoC1:      1e-4,
		InitialStep:   1.0,
	}
}

// Result is the outcome of a local optimization run.
type Result struct {
	Conformation ligand.Conformation
	Energy       float64
	Iterations   int
	Converged    bool
}

// Minimize runs BFGS starting from start, evaluating energy and gradient
// through eval, and returns the best pose found.
func Minimize(eval *conformation.Evaluator, start ligand.Conformation, cfg Config) Result {
	dims := 6 + len(start.Torsions)
	conf := cloneConformation(start)

	energy, change := eval.Evaluate(conf)
	if !finite(energy) {
		return Result{Conformation: conf, Energy: energy}
	}
	g := changeToVec(change, dims)

	h := mat.NewDense(dims, dims, nil)
	for i := 0; i < dims; i++ {
		h.Set(i, i, 1)
	}

	iter := 0
	for ; iter < cfg.MaxIterations; iter++ {
		gNorm := vecNorm(g)
		if gNorm < cfg.GradientTol {
			return Result{Conformation: conf, Energy: energy, Iterations: iter, Converged: true}
		}

		direction := negHg(h, g, dims)

		newConf, newEnergy, newChange, alpha, ok := armijoLineSearch(eval, conf, energy, g, direction, dims, cfg)
		if !ok {
			return Result{Conformation: conf, Energy: energy, Iterations: iter, Converged: false}
		}

		newG := changeToVec(newChange, dims)
		s := scaleVec(direction, alpha)
		y := subVec(newG, g)

		updateBFGS(h, s, y, dims)

		conf, energy, g = newConf, newEnergy, newG
	}

	return Result{Conformation: conf, Energy: energy, Iterations: iter, Converged: false}
}

// armijoLineSearch backtracks alpha from cfg.InitialStep by half until the
// Armijo sufficient-decrease condition holds or the step underflows,
// mirroring the teacher's armijoWolfeLineSearch fallback-to-small-step
// behavior.
func armijoLineSearch(eval *conformation.Evaluator, conf ligand.Conformation, energy float64, g, direction []float64, dims int, cfg Config) (ligand.Conformation, float64, conformation.Change, float64, bool) {
	slope := dotVec(g, direction)
	if slope >= 0 {
		// direction is not a descent direction (can happen after a bad
		// BFGS update); fall back to steepest descent.
		direction = scaleVec(g, -1)
		slope = dotVec(g, direction)
	}

	alpha := cfg.InitialStep
	for i := 0; i < 20; i++ {
		trial := applyStep(conf, direction, alpha)
		trialEnergy, trialChange := eval.Evaluate(trial)
		if finite(trialEnergy) && trialEnergy <= energy+cfg.ArmijoC1*alpha*slope {
			return trial, trialEnergy, trialChange, alpha, true
		}
		alpha *= 0.5
	}
	return conf, energy, conformation.Change{}, 0, false
}

// updateBFGS applies the rank-2 inverse-Hessian update in place.
func updateBFGS(h *mat.Dense, s, y []float64, dims int) {
	sy := dotVec(s, y)
	if sy <= 1e-10 {
		return // skip update: curvature condition violated
	}
	rho := 1 / sy

	sVec := mat.NewVecDense(dims, s)
	yVec := mat.NewVecDense(dims, y)

	var hy mat.VecDense
	hy.MulVec(h, yVec)
	yHy := mat.Dot(yVec, &hy)

	var term1 mat.Dense
	term1.Outer(rho*rho*(yHy)+rho, sVec, sVec)

	var hys mat.Dense
	hys.Mul(h, outer(yVec, sVec))
	var syh mat.Dense
	syh.Mul(outer(sVec, yVec), h)

	var next mat.Dense
	next.Add(h, &term1)
	next.Sub(&next, scaleDense(&hys, rho))
	next.Sub(&next, scaleDense(&syh, rho))

	h.Copy(&next)
}

func outer(a, b *mat.VecDense) *mat.Dense {
	var out mat.Dense
	out.Outer(1, a, b)
	return &out
}

func scaleDense(m *mat.Dense, s float64) *mat.Dense {
	var out mat.Dense
	out.Scale(s, m)
	return &out
}

func negHg(h *mat.Dense, g []float64, dims int) []float64 {
	gVec := mat.NewVecDense(dims, g)
	var hg mat.VecDense
	hg.MulVec(h, gVec)
	out := make([]float64, dims)
	for i := 0; i < dims; i++ {
		out[i] = -hg.AtVec(i)
	}
	return out
}

func applyStep(conf ligand.Conformation, direction []float64, alpha float64) ligand.Conformation {
	next := cloneConformation(conf)
	next.Position = conf.Position.Add(geometry.Vector3{
		X: direction[0] * alpha, Y: direction[1] * alpha, Z: direction[2] * alpha,
	})
	w := geometry.Vector3{X: direction[3] * alpha, Y: direction[4] * alpha, Z: direction[5] * alpha}
	next.Orientation = conf.Orientation.ExpMapUpdate(w)
	for i := range next.Torsions {
		next.Torsions[i] = conf.Torsions[i] + direction[6+i]*alpha
	}
	return next
}

func cloneConformation(conf ligand.Conformation) ligand.Conformation {
	return ligand.Conformation{
		Position:    conf.Position,
		Orientation: conf.Orientation,
		Torsions:    append([]float64(nil), conf.Torsions...),
	}
}

func changeToVec(c conformation.Change, dims int) []float64 {
	out := make([]float64, dims)
	out[0], out[1], out[2] = c.Position.X, c.Position.Y, c.Position.Z
	out[3], out[4], out[5] = c.Torque.X, c.Torque.Y, c.Torque.Z
	copy(out[6:], c.Torsions)
	return out
}

func vecNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dotVec(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func subVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func scaleVec(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
