package classifier

import (
	"math/rand"
	"sort"
)

// node is a binary decision tree node. Leaves have nil children.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	prob      float64 // weighted share of class 1 among the node's samples
}

func (n *node) isLeaf() bool { return n.left == nil }

// predict walks a row down to its leaf. at returns feature j of the row.
func (n *node) predict(at func(j int) float64) float64 {
	for !n.isLeaf() {
		if at(n.feature) <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

// treeBuilder grows one CART tree with weighted Gini impurity.
type treeBuilder struct {
	cols            [][]float64 // column-major features
	y               []int
	weight          []float64 // per-row weight, zero for rows out of the bag
	rng             *rand.Rand
	maxFeatures     int
	minSamplesSplit int
	maxDepth        int // 0 = unbounded
}

// split is a candidate partition of a node.
type split struct {
	feature   int
	threshold float64
	score     float64
}

func (b *treeBuilder) classWeights(idx []int) (w0, w1 float64) {
	for _, i := range idx {
		if b.y[i] == 1 {
			w1 += b.weight[i]
		} else {
			w0 += b.weight[i]
		}
	}
	return w0, w1
}

func (b *treeBuilder) grow(idx []int, depth int) *node {
	w0, w1 := b.classWeights(idx)
	n := &node{prob: w1 / (w0 + w1)}

	if w0 == 0 || w1 == 0 || len(idx) < b.minSamplesSplit {
		return n
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return n
	}

	best, ok := b.bestSplit(idx, w0, w1)
	if !ok {
		return n
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	col := b.cols[best.feature]
	for _, i := range idx {
		if col[i] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	n.feature = best.feature
	n.threshold = best.threshold
	n.left = b.grow(left, depth+1)
	n.right = b.grow(right, depth+1)
	return n
}

// bestSplit draws features in random order and evaluates them until
// maxFeatures non-constant features have been tried.
func (b *treeBuilder) bestSplit(idx []int, w0, w1 float64) (split, bool) {
	total := w0 + w1
	parent := (w0*w0 + w1*w1) / total

	var best split
	found := false
	tried := 0
	sorted := make([]int, len(idx))

	for _, f := range b.rng.Perm(len(b.cols)) {
		if tried >= b.maxFeatures {
			break
		}
		col := b.cols[f]

		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return col[sorted[a]] < col[sorted[c]] })
		if col[sorted[0]] == col[sorted[len(sorted)-1]] {
			continue
		}
		tried++

		var l0, l1 float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			if b.y[i] == 1 {
				l1 += b.weight[i]
			} else {
				l0 += b.weight[i]
			}
			lo, hi := col[i], col[sorted[k+1]]
			if lo == hi {
				continue
			}
			r0, r1 := w0-l0, w1-l1
			lw, rw := l0+l1, r0+r1
			if lw <= 0 || rw <= 0 {
				continue
			}

			// Maximizing this proxy minimizes the weighted child Gini impurity.
			score := (l0*l0+l1*l1)/lw + (r0*r0+r1*r1)/rw
			if score <= parent+1e-12 {
				continue
			}
			if !found || score > best.score {
				thr := lo + (hi-lo)/2
				if thr >= hi {
					thr = lo
				}
				best = split{feature: f, threshold: thr, score: score}
				found = true
			}
		}
	}
	return best, found
}
