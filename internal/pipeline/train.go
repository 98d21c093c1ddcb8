package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/dropoff/internal/balance"
	"github.com/gyeh/dropoff/internal/classify"
	"github.com/gyeh/dropoff/internal/config"
	"github.com/gyeh/dropoff/internal/features"
	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/segment"
)

// ModelResult is one classifier's held-out evaluation.
type ModelResult struct {
	Model       string
	Metrics     model.ModelMetrics
	Predictions []model.Prediction
}

// TrainResult holds every trained model and the one chosen for export.
type TrainResult struct {
	Encoder  *features.Encoder
	Segments *segment.Model
	Models   []ModelResult
	Selected *ModelResult
}

// Train encodes rows, assigns segments, balances outcomes and fits every
// classifier on one seeded split.
func Train(ctx context.Context, log zerolog.Logger, cfg *config.Config, rows []model.IntegratedRow, sum *model.RunSummary) (*TrainResult, error) {
	p := cfg.Params

	// Phase 5: Encode
	if err := checkCtx(ctx, PhaseEncode); err != nil {
		return nil, err
	}
	start := time.Now()
	enc, err := features.Fit(rows, cfg.FeatureColumns())
	if err != nil {
		return nil, fail(PhaseEncode, err)
	}
	vecs, unseen := enc.TransformAll(rows)
	if unseen > 0 {
		log.Warn().Int("unseen", unseen).Msg("categorical values mapped to the unseen slot")
	}

	// Phase 6: Segment
	if err := checkCtx(ctx, PhaseSegment); err != nil {
		return nil, err
	}
	seg, labels, err := segment.KMeans(vecs, segment.Options{
		K:         p.Clusters,
		MaxIter:   p.KMeansMaxIter,
		Tolerance: p.KMeansTolerance,
		Seed:      p.Seed,
	})
	if err != nil {
		return nil, fail(PhaseSegment, err)
	}
	if len(vecs) > 0 && !seg.Converged {
		log.Warn().Int("iterations", seg.Iterations).Msg("segmentation stopped at the iteration limit")
	}
	points := make([]model.LabeledPoint, len(rows))
	for i := range rows {
		points[i] = model.LabeledPoint{
			PatientID: rows[i].PatientID,
			Features:  features.AppendSegment(vecs[i], labels[i], p.Clusters),
			Label:     float64(rows[i].DropOff),
			Segment:   labels[i],
		}
	}
	sum.FeatureDim = enc.Dim() + p.Clusters
	sum.DurationEncode = time.Since(start)
	log.Info().
		Int("rows", len(points)).
		Int("feature_dim", sum.FeatureDim).
		Ints("segment_sizes", segment.Sizes(labels, p.Clusters)).
		Dur("duration", sum.DurationEncode).
		Msg("features encoded")

	// Phase 7: Balance
	if err := checkCtx(ctx, PhaseBalance); err != nil {
		return nil, err
	}
	balanced, st := balance.Undersample(points, p.MajorityFraction, p.Seed)
	sum.RowsBalanced = int64(len(balanced))
	log.Info().
		Int("minority", st.Minority).
		Int("majority", st.Majority).
		Int("majority_kept", st.MajorityKept).
		Float64("fraction", st.Fraction).
		Msg("classes balanced")

	// Phase 8: Train
	if err := checkCtx(ctx, PhaseTrain); err != nil {
		return nil, err
	}
	start = time.Now()
	train, test, err := classify.Split(balanced, p.TrainFraction, p.Seed)
	if err != nil {
		return nil, fail(PhaseTrain, err)
	}
	X, y := classify.Matrix(train)

	res := &TrainResult{Encoder: enc, Segments: seg}
	for _, c := range classify.All(classifyOptions(p)) {
		if err := checkCtx(ctx, PhaseTrain); err != nil {
			return nil, err
		}
		mStart := time.Now()
		if err := c.Fit(X, y); err != nil {
			return nil, fail(PhaseTrain, fmt.Errorf("fit %s: %w", c.Name(), err))
		}
		if lr, ok := c.(*classify.Logistic); ok && !lr.Converged {
			log.Warn().Err(lr.StopErr).Msg("logistic optimizer stopped before convergence")
		}
		ev, err := classify.Evaluate(c, test)
		if err != nil {
			return nil, fail(PhaseTrain, fmt.Errorf("evaluate %s: %w", c.Name(), err))
		}
		m := model.ModelMetrics{
			Model:     c.Name(),
			AUC:       ev.AUC,
			Accuracy:  ev.Accuracy,
			TrainRows: len(train),
			TestRows:  len(test),
			Duration:  time.Since(mStart),
		}
		log.Info().
			Str("model", m.Model).
			Float64("auc", m.AUC).
			Float64("accuracy", m.Accuracy).
			Dur("duration", m.Duration).
			Msg("model evaluated")
		res.Models = append(res.Models, ModelResult{Model: c.Name(), Metrics: m, Predictions: ev.Predictions})
		sum.Metrics = append(sum.Metrics, m)
	}

	res.Selected = selectModel(res.Models, p.ExportModel)
	sum.SelectedModel = res.Selected.Model
	sum.Predictions = res.Selected.Predictions
	sum.DurationTrain = time.Since(start)
	log.Info().
		Int("train_rows", len(train)).
		Int("test_rows", len(test)).
		Str("selected", sum.SelectedModel).
		Dur("duration", sum.DurationTrain).
		Msg("training complete")
	return res, nil
}

func classifyOptions(p config.Params) classify.Options {
	return classify.Options{
		Seed:            p.Seed,
		ForestTrees:     p.ForestTrees,
		TreeMaxDepth:    p.TreeMaxDepth,
		BoostRounds:     p.BoostRounds,
		BoostStep:       p.BoostStep,
		LogisticMaxIter: p.LogisticMaxIter,
		LogisticL2:      p.LogisticL2,
	}
}

// selectModel returns the named model, or for config.ModelBest the highest
// AUC with ties going to the earlier model.
func selectModel(models []ModelResult, name string) *ModelResult {
	var best *ModelResult
	for i := range models {
		m := &models[i]
		if name != config.ModelBest {
			if m.Model == name {
				return m
			}
			continue
		}
		if best == nil || m.Metrics.AUC > best.Metrics.AUC {
			best = m
		}
	}
	return best
}
