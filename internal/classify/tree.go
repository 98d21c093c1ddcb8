package classify

import (
	"math"
	"math/rand"
	"sort"
)

// node is a binary regression tree node. Leaves have left == nil.
type node struct {
	feature     int
	threshold   float64 // rows with x[feature] <= threshold go left
	left, right *node
	value       float64
}

func (n *node) predict(x []float64) float64 {
	for n.left != nil {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeBuilder grows a least-squares regression tree on target. Leaf values
// come from leaf so the same builder serves bagging and boosting.
type treeBuilder struct {
	X           [][]float64
	target      []float64
	maxDepth    int
	maxFeatures int // features tried per split; 0 tries all
	rng         *rand.Rand
	leaf        func(rows []int) float64
}

func (b *treeBuilder) build(rows []int, depth int) *node {
	if depth >= b.maxDepth || len(rows) < 2 || b.pure(rows) {
		return &node{value: b.leaf(rows)}
	}
	feature, threshold, ok := b.bestSplit(rows)
	if !ok {
		return &node{value: b.leaf(rows)}
	}

	var left, right []int
	for _, r := range rows {
		if b.X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) pure(rows []int) bool {
	first := b.target[rows[0]]
	for _, r := range rows[1:] {
		if b.target[r] != first {
			return false
		}
	}
	return true
}

func (b *treeBuilder) candidates() []int {
	dim := len(b.X[0])
	if b.maxFeatures <= 0 || b.maxFeatures >= dim {
		all := make([]int, dim)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return b.rng.Perm(dim)[:b.maxFeatures]
}

// bestSplit scans every boundary between distinct sorted values and keeps
// the split with the largest drop in squared error.
func (b *treeBuilder) bestSplit(rows []int) (feature int, threshold float64, ok bool) {
	var total, totalSq float64
	for _, r := range rows {
		total += b.target[r]
		totalSq += b.target[r] * b.target[r]
	}
	n := float64(len(rows))
	parent := totalSq - total*total/n
	bestGain := 1e-12

	sorted := make([]int, len(rows))
	for _, f := range b.candidates() {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool { return b.X[sorted[i]][f] < b.X[sorted[j]][f] })

		var sum, sumSq float64
		for i := 0; i < len(sorted)-1; i++ {
			t := b.target[sorted[i]]
			sum += t
			sumSq += t * t
			lo, hi := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if lo == hi {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			sse := (sumSq - sum*sum/nl) + ((totalSq - sumSq) - (total-sum)*(total-sum)/nr)
			if gain := parent - sse; gain > bestGain {
				bestGain, feature, threshold, ok = gain, f, lo+(hi-lo)/2, true
			}
		}
	}
	return feature, threshold, ok
}

func meanOf(values []float64, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += values[r]
	}
	return sum / float64(len(rows))
}

func sqrtFeatures(dim int) int {
	return int(math.Max(1, math.Floor(math.Sqrt(float64(dim)))))
}
