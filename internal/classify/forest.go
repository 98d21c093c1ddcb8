package classify

import "math/rand"

// RandomForest bags regression trees over bootstrap samples, trying a
// random sqrt(d) subset of features at each split. Leaves hold the share of
// positive rows, so the averaged output is a probability.
type RandomForest struct {
	Trees    int
	MaxDepth int
	Seed     int64

	roots []*node
}

func (f *RandomForest) Name() string { return NameRandomForest }

func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	dim, err := checkTraining(X, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(f.Seed))
	b := &treeBuilder{
		X:           X,
		target:      y,
		maxDepth:    f.MaxDepth,
		maxFeatures: sqrtFeatures(dim),
		rng:         rng,
		leaf:        func(rows []int) float64 { return meanOf(y, rows) },
	}

	f.roots = make([]*node, 0, f.Trees)
	for t := 0; t < f.Trees; t++ {
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}
		f.roots = append(f.roots, b.build(sample, 0))
	}
	return nil
}

func (f *RandomForest) PredictProba(x []float64) float64 {
	if len(f.roots) == 0 {
		return 0
	}
	var sum float64
	for _, root := range f.roots {
		sum += root.predict(x)
	}
	return sum / float64(len(f.roots))
}
