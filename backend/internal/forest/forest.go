package forest

import (
	"math/rand"

	"github.com/sarat-asymmetrica/jdock/backend/internal/workpool"
)

// Forest is a trained ensemble of regression trees whose average
// prediction is the rescored binding affinity (pKd) for a pose.
type Forest struct {
	trees []*treeNode
}

// Train grows numTrees regression trees, each on an independent bootstrap
// resample of samples, fanning the work out across pool. The root seed
// derives one per-tree seed in a fixed, sequential order so that a given
// (samples, numTrees, rootSeed) triple always yields the same forest
// regardless of how the pool schedules goroutines.
func Train(samples []Sample, numTrees int, rootSeed int64, pool *workpool.Pool) (*Forest, error) {
	seeder := rand.New(rand.NewSource(rootSeed))
	seeds := make([]int64, numTrees)
	for i := range seeds {
		seeds[i] = seeder.Int63()
	}

	trees := make([]*treeNode, numTrees)
	for i := 0; i < numTrees; i++ {
		i := i
		pool.Post(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			boot := bootstrap(samples, rng)
			trees[i] = buildTree(boot, rng)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return &Forest{trees: trees}, nil
}

func bootstrap(samples []Sample, rng *rand.Rand) []Sample {
	out := make([]Sample, len(samples))
	for i := range out {
		out[i] = samples[rng.Intn(len(samples))]
	}
	return out
}

// Predict returns the ensemble-averaged affinity prediction for features.
func (f *Forest) Predict(features [NumFeatures]float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(features)
	}
	return sum / float64(len(f.trees))
}

// NumTrees reports how many trees the forest holds.
func (f *Forest) NumTrees() int { return len(f.trees) }
