// Package segment clusters encoded patients into behavioural segments.
package segment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ErrTooFewPoints is returned when there are fewer points than clusters.
var ErrTooFewPoints = errors.New("fewer points than clusters")

// Options configures KMeans.
type Options struct {
	K         int
	MaxIter   int
	Tolerance float64 // stop once no centroid moves farther than this
	Seed      int64
}

// Model is a fitted set of centroids.
type Model struct {
	Centroids  [][]float64
	Iterations int
	Converged  bool
}

// KMeans partitions points with Lloyd's algorithm from a seeded k-means++
// start. It returns the model and one label per point. An empty input yields
// an empty model and no labels.
func KMeans(points [][]float64, opts Options) (*Model, []int, error) {
	if opts.K < 1 {
		return nil, nil, fmt.Errorf("k must be positive, got %d", opts.K)
	}
	if len(points) == 0 {
		return &Model{}, nil, nil
	}
	if len(points) < opts.K {
		return nil, nil, fmt.Errorf("%w: %d points, %d clusters", ErrTooFewPoints, len(points), opts.K)
	}
	if opts.MaxIter < 1 {
		opts.MaxIter = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	m := &Model{Centroids: initPlusPlus(points, opts.K, rng)}
	labels := make([]int, len(points))
	dim := len(points[0])

	for m.Iterations < opts.MaxIter {
		m.Iterations++
		for i, p := range points {
			labels[i] = m.Assign(p)
		}

		sums := make([][]float64, opts.K)
		counts := make([]int, opts.K)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		var moved float64
		for c := range sums {
			// an emptied cluster keeps its previous centroid
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			if d := floats.Distance(m.Centroids[c], sums[c], 2); d > moved {
				moved = d
			}
			m.Centroids[c] = sums[c]
		}
		if moved < opts.Tolerance {
			m.Converged = true
			break
		}
	}

	for i, p := range points {
		labels[i] = m.Assign(p)
	}
	return m, labels, nil
}

// Assign returns the index of the nearest centroid; ties go to the lower index.
func (m *Model) Assign(x []float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range m.Centroids {
		if d := floats.Distance(x, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Sizes counts points per cluster label.
func Sizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	return sizes
}

func initPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			nearest := math.Inf(1)
			for _, c := range centroids {
				if d := floats.Distance(p, c, 2); d < nearest {
					nearest = d
				}
			}
			d2[i] = nearest * nearest
			total += d2[i]
		}

		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, w := range d2 {
				target -= w
				if target <= 0 && w > 0 {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
