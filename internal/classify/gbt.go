package classify

import "math"

// GradientBoosting fits log-loss boosted regression trees. Each round fits
// the residual y-p and sets leaves to the Newton step Σr / Σp(1-p).
type GradientBoosting struct {
	Rounds   int
	Step     float64
	MaxDepth int

	base  float64 // initial log-odds
	roots []*node
}

func (g *GradientBoosting) Name() string { return NameGradientBoosting }

func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if _, err := checkTraining(X, y); err != nil {
		return err
	}
	rate := math.Min(math.Max(meanOf(y, allRows(len(y))), 1e-6), 1-1e-6)
	g.base = math.Log(rate / (1 - rate))

	score := make([]float64, len(X))
	prob := make([]float64, len(X))
	resid := make([]float64, len(X))
	for i := range score {
		score[i] = g.base
	}

	b := &treeBuilder{
		X:        X,
		target:   resid,
		maxDepth: g.MaxDepth,
		leaf: func(rows []int) float64 {
			var num, den float64
			for _, r := range rows {
				num += resid[r]
				den += prob[r] * (1 - prob[r])
			}
			if den < 1e-12 {
				return 0
			}
			return num / den
		},
	}

	rows := allRows(len(X))
	g.roots = make([]*node, 0, g.Rounds)
	for round := 0; round < g.Rounds; round++ {
		for i := range X {
			prob[i] = sigmoid(score[i])
			resid[i] = y[i] - prob[i]
		}
		root := b.build(rows, 0)
		g.roots = append(g.roots, root)
		for i, x := range X {
			score[i] += g.Step * root.predict(x)
		}
	}
	return nil
}

func (g *GradientBoosting) PredictProba(x []float64) float64 {
	score := g.base
	for _, root := range g.roots {
		score += g.Step * root.predict(x)
	}
	return sigmoid(score)
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
