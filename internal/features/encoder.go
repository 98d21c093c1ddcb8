package features

import (
	"fmt"

	"github.com/gyeh/dropoff/internal/model"
)

// Encoder holds the fitted per-column transforms and assembles them, in
// declared column order, into one vector per row.
type Encoder struct {
	Columns  []model.FeatureColumn
	Indexers map[string]*StringIndexer
	Scalers  map[string]Scaler
	dim      int
}

// Fit learns indexers and scalers over the full working dataset.
func Fit(rows []model.IntegratedRow, cols []model.FeatureColumn) (*Encoder, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no feature columns selected")
	}
	e := &Encoder{
		Columns:  cols,
		Indexers: make(map[string]*StringIndexer),
		Scalers:  make(map[string]Scaler),
	}

	for _, c := range cols {
		switch c.Kind {
		case model.Categorical:
			vals := make([]string, len(rows))
			for i := range rows {
				v, ok := rows[i].Categorical(c.Name)
				if !ok {
					return nil, fmt.Errorf("column %s is not categorical", c.Name)
				}
				vals[i] = v
			}
			idx := FitStringIndexer(c.Name, vals)
			e.Indexers[c.Name] = idx
			e.dim += idx.Size()
		case model.Numeric:
			vals := make([]float64, len(rows))
			for i := range rows {
				v, ok := rows[i].Numeric(c.Name)
				if !ok {
					return nil, fmt.Errorf("column %s is not numeric", c.Name)
				}
				vals[i] = v
			}
			e.Scalers[c.Name] = FitScaler(c.Name, vals)
			e.dim++
		}
	}
	return e, nil
}

// Dim is the length of every transformed vector.
func (e *Encoder) Dim() int {
	return e.dim
}

// Transform encodes one row. unseen counts categorical values that fell into
// the reserved slot.
func (e *Encoder) Transform(r *model.IntegratedRow) (vec []float64, unseen int) {
	vec = make([]float64, 0, e.dim)
	for _, c := range e.Columns {
		switch c.Kind {
		case model.Categorical:
			v, _ := r.Categorical(c.Name)
			idx := e.Indexers[c.Name]
			i, ok := idx.Index(v)
			if !ok {
				unseen++
			}
			vec = OneHot(vec, i, idx.Size())
		case model.Numeric:
			v, _ := r.Numeric(c.Name)
			vec = append(vec, e.Scalers[c.Name].Apply(v))
		}
	}
	return vec, unseen
}

// TransformAll encodes every row and reports the total unseen-category count.
func (e *Encoder) TransformAll(rows []model.IntegratedRow) ([][]float64, int) {
	out := make([][]float64, len(rows))
	var unseen int
	for i := range rows {
		vec, u := e.Transform(&rows[i])
		out[i] = vec
		unseen += u
	}
	return out, unseen
}

// FeatureNames labels every vector slot, e.g. "gender=Male" or "age".
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.dim)
	for _, c := range e.Columns {
		if c.Kind == model.Numeric {
			names = append(names, c.Name)
			continue
		}
		idx := e.Indexers[c.Name]
		for i := 0; i < idx.Size(); i++ {
			names = append(names, c.Name+"="+idx.Label(i))
		}
	}
	return names
}

// Slice returns the [start, end) span of column name within a vector.
func (e *Encoder) Slice(name string) (start, end int, ok bool) {
	for _, c := range e.Columns {
		width := 1
		if c.Kind == model.Categorical {
			width = e.Indexers[c.Name].Size()
		}
		if c.Name == name {
			return start, start + width, true
		}
		start += width
	}
	return 0, 0, false
}

// AppendSegment extends vec with a k-dimensional one-hot of the cluster label.
func AppendSegment(vec []float64, segment, k int) []float64 {
	out := make([]float64, len(vec), len(vec)+k)
	copy(out, vec)
	return OneHot(out, segment, k)
}
