package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairIndexSymmetric(t *testing.T) {
	for a := XSType(0); a < NumTypes; a++ {
		for b := XSType(0); b < NumTypes; b++ {
			assert.Equal(t, pairIndex(a, b), pairIndex(b, a), "pairIndex must be symmetric for %v,%v", a, b)
		}
	}
}

func TestPairIndexDistinctForDistinctPairs(t *testing.T) {
	seen := make(map[int][2]XSType)
	for a := XSType(0); a < NumTypes; a++ {
		for b := a; b < NumTypes; b++ {
			idx := pairIndex(a, b)
			if prev, ok := seen[idx]; ok {
				t.Fatalf("pair index collision: (%v,%v) and (%v,%v) both map to %d", prev[0], prev[1], a, b, idx)
			}
			seen[idx] = [2]XSType{a, b}
		}
	}
}

func TestEvaluateBeyondCutoffIsSmall(t *testing.T) {
	f := NewFunction()
	f.Precalculate([]XSType{CHydrophobic, OAcceptor})
	e, _ := f.Evaluate(CHydrophobic, OAcceptor, CutoffSquared-Step)
	// near the cutoff both gaussians have decayed to near zero
	assert.InDelta(t, 0, e, 0.05)
}

func TestEvaluateAtOrBeyondCutoffIsZero(t *testing.T) {
	f := NewFunction()
	f.Precalculate([]XSType{CHydrophobic, OAcceptor})
	for _, r2 := range []float64{CutoffSquared, CutoffSquared + 1, CutoffSquared * 2} {
		e, dE := f.Evaluate(CHydrophobic, OAcceptor, r2)
		assert.Equal(t, 0.0, e)
		assert.Equal(t, 0.0, dE)
	}
}

func TestEvaluateSymmetricAcrossTypeOrder(t *testing.T) {
	f := NewFunction()
	f.Precalculate([]XSType{CHydrophobic, NDonor})
	e1, d1 := f.Evaluate(CHydrophobic, NDonor, 9.0)
	e2, d2 := f.Evaluate(NDonor, CHydrophobic, 9.0)
	require.Equal(t, e1, e2)
	require.Equal(t, d1, d2)
}

func TestRampDownBounds(t *testing.T) {
	v, dv := rampDown(-1, 0.5, 1.5)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 0.0, dv)

	v, _ = rampDown(2, 0.5, 1.5)
	assert.Equal(t, 0.0, v)

	v, _ = rampDown(1.0, 0.5, 1.5)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestHydrophobicAttractsAtContact(t *testing.T) {
	f := NewFunction()
	f.Precalculate([]XSType{CHydrophobic})
	r0 := covalentRadius[CHydrophobic] * 2
	e, _ := f.Evaluate(CHydrophobic, CHydrophobic, r0*r0)
	assert.Less(t, e, 0.0, "two hydrophobic carbons in contact should score favorably")
}

func TestEvaluateFiniteEverywhere(t *testing.T) {
	f := NewFunction()
	all := make([]XSType, 0, NumTypes)
	for t0 := XSType(0); t0 < NumTypes; t0++ {
		all = append(all, t0)
	}
	f.Precalculate(all)
	for t0 := XSType(0); t0 < NumTypes; t0++ {
		for t1 := XSType(0); t1 < NumTypes; t1++ {
			for _, r2 := range []float64{0, 1, 4, 16, CutoffSquared - 1} {
				e, dE := f.Evaluate(t0, t1, r2)
				assert.True(t, !math.IsNaN(e) && !math.IsInf(e, 0))
				assert.True(t, !math.IsNaN(dE) && !math.IsInf(dE, 0))
			}
		}
	}
}
