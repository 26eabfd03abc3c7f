package forest

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Sample is one training example: a descriptor vector and its known
// binding affinity (pKd).
type Sample struct {
	Features [NumFeatures]float64
	Target   float64
}

// minLeafSize stops splitting a node once it holds this many samples or
// fewer, matching the small-leaf regime RF-Score-style forests use to avoid
// overfitting the 36-dimensional descriptor.
const minLeafSize = 8

// mtry is the number of randomly-chosen candidate features considered at
// each split, the classical sqrt(NumFeatures) rule of thumb.
const mtry = 6

type treeNode struct {
	leaf         bool
	value        float64
	featureIndex int
	threshold    float64
	left, right  *treeNode
}

// buildTree grows a regression tree over samples by recursively splitting
// on the candidate feature/threshold that most reduces target variance,
// using gonum.org/v1/gonum/stat for the variance and mean calculations at
// each candidate split.
func buildTree(samples []Sample, rng *rand.Rand) *treeNode {
	if len(samples) <= minLeafSize {
		return &treeNode{leaf: true, value: meanTarget(samples)}
	}

	featureIdx, threshold, gain := bestSplit(samples, rng)
	if gain <= 0 {
		return &treeNode{leaf: true, value: meanTarget(samples)}
	}

	var left, right []Sample
	for _, s := range samples {
		if s.Features[featureIdx] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: meanTarget(samples)}
	}

	return &treeNode{
		featureIndex: featureIdx,
		threshold:    threshold,
		left:         buildTree(left, rng),
		right:        buildTree(right, rng),
	}
}

func meanTarget(samples []Sample) float64 {
	targets := make([]float64, len(samples))
	for i, s := range samples {
		targets[i] = s.Target
	}
	return stat.Mean(targets, nil)
}

// bestSplit scans mtry randomly-chosen features and, for each, every
// candidate threshold (the midpoint between consecutive sorted sample
// values), picking the split with the largest variance reduction.
func bestSplit(samples []Sample, rng *rand.Rand) (feature int, threshold float64, gain float64) {
	candidates := rng.Perm(NumFeatures)[:mtry]
	targets := make([]float64, len(samples))
	for i, s := range samples {
		targets[i] = s.Target
	}
	totalVariance := stat.Variance(targets, nil) * float64(len(samples)-1)

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for _, f := range candidates {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.Features[f]
		}
		for _, thresh := range midpoints(values) {
			var leftTargets, rightTargets []float64
			for i, s := range samples {
				if s.Features[f] <= thresh {
					leftTargets = append(leftTargets, s.Target)
				} else {
					rightTargets = append(rightTargets, s.Target)
				}
			}
			if len(leftTargets) == 0 || len(rightTargets) == 0 {
				continue
			}
			leftVar := varianceOrZero(leftTargets) * float64(len(leftTargets)-1)
			rightVar := varianceOrZero(rightTargets) * float64(len(rightTargets)-1)
			g := totalVariance - leftVar - rightVar
			if g > bestGain {
				bestGain = g
				bestFeature = f
				bestThreshold = thresh
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

func varianceOrZero(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	return stat.Variance(v, nil)
}

// midpoints returns the midpoints between consecutive distinct values in a
// sorted copy of values, used as split-threshold candidates.
func midpoints(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	insertionSort(sorted)
	var out []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			continue
		}
		out = append(out, (sorted[i]+sorted[i-1])/2)
	}
	return out
}

func insertionSort(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func (n *treeNode) predict(features [NumFeatures]float64) float64 {
	if n.leaf {
		return n.value
	}
	if features[n.featureIndex] <= n.threshold {
		return n.left.predict(features)
	}
	return n.right.predict(features)
}
