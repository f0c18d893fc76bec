package forecast

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// treeNode is a node of one regression tree. Leaves carry a weight; inner nodes route on
// vector[feature] < threshold.
type treeNode struct {
	leaf      bool
	weight    float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) eval(x [numFeatures]float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.weight
}

// booster is a fitted gradient-boosted ensemble of regression trees under squared loss.
type booster struct {
	base  float64
	eta   float64
	trees []*treeNode
	gain  [numFeatures]float64
}

func (b *booster) predict(x [numFeatures]float64) float64 {
	out := b.base
	for _, t := range b.trees {
		out += b.eta * t.eval(x)
	}
	return out
}

// importance returns the share of total split gain attributed to each feature.
func (b *booster) importance() [numFeatures]float64 {
	var total float64
	for _, g := range b.gain {
		total += g
	}
	var out [numFeatures]float64
	if total <= 0 {
		return out
	}
	for i, g := range b.gain {
		out[i] = g / total
	}
	return out
}

// fitBooster trains an ensemble on x/y. A constant or non-finite target is reported as
// ErrComputationFailure.
func fitBooster(x [][numFeatures]float64, y []float64, p BoostParams) (*booster, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d feature rows for %d targets", ErrComputationFailure, len(x), len(y))
	}
	if len(y) < 2 {
		return nil, fmt.Errorf("%w: need at least two training rows, got %d", ErrComputationFailure, len(y))
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite target value", ErrComputationFailure)
		}
	}

	b := &booster{
		base: stat.Mean(y, nil),
		eta:  p.LearningRate,
	}

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = b.base
	}
	grad := make([]float64, len(y))
	idx := make([]int, len(y))

	for round := 0; round < p.Rounds; round++ {
		for i := range y {
			grad[i] = pred[i] - y[i]
			idx[i] = i
		}
		tree := b.grow(x, grad, idx, 0, p)
		b.trees = append(b.trees, tree)
		for i := range pred {
			pred[i] += b.eta * tree.eval(x[i])
		}
	}

	for _, v := range pred {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: ensemble diverged", ErrComputationFailure)
		}
	}
	return b, nil
}

// grow builds one tree over rows idx. Hessians are 1 under squared loss, so H is the row count.
func (b *booster) grow(x [][numFeatures]float64, grad []float64, idx []int, depth int, p BoostParams) *treeNode {
	var g float64
	for _, i := range idx {
		g += grad[i]
	}
	h := float64(len(idx))
	leaf := &treeNode{leaf: true, weight: -g / (h + p.Lambda)}

	if depth >= p.MaxDepth || len(idx) < 2 {
		return leaf
	}

	parentScore := g * g / (h + p.Lambda)
	bestGain := 0.0
	bestFeature := -1
	var bestThreshold float64

	sorted := make([]int, len(idx))
	for f := 0; f < numFeatures; f++ {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return x[sorted[a]][f] < x[sorted[c]][f] })

		var gl, hl float64
		for k := 0; k < len(sorted)-1; k++ {
			gl += grad[sorted[k]]
			hl++
			cur, next := x[sorted[k]][f], x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			hr := h - hl
			if hl < p.MinChildWeight || hr < p.MinChildWeight {
				continue
			}
			gr := g - gl
			gain := gl*gl/(hl+p.Lambda) + gr*gr/(hr+p.Lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}
	b.gain[bestFeature] += bestGain

	var left, right []int
	for _, i := range idx {
		if x[i][bestFeature] < bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      b.grow(x, grad, left, depth+1, p),
		right:     b.grow(x, grad, right, depth+1, p),
	}
}
