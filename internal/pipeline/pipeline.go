// Package pipeline wires the preprocessing, prediction and explanation steps
// into the single call the transports use.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/explain"
	"github.com/Brownie44l1/plant-disease-api/internal/history"
	"github.com/Brownie44l1/plant-disease-api/internal/predict"
	"github.com/Brownie44l1/plant-disease-api/internal/preprocess"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

// Recorder persists served predictions. It is optional.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

type Outcome struct {
	Species     string             `json:"species"`
	Label       string             `json:"label"`
	Explanation string             `json:"explanation"`
	Confidence  float32            `json:"confidence"`
	Resolved    bool               `json:"resolved"`
	Predictions map[string]float32 `json:"predictions"`
}

type Service struct {
	registry  *registry.Registry
	predictor *predict.Predictor
	catalog   *explain.Catalog
	recorder  Recorder
	logger    *zap.Logger
}

func New(reg *registry.Registry, predictor *predict.Predictor, catalog *explain.Catalog, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		registry:  reg,
		predictor: predictor,
		catalog:   catalog,
		recorder:  recorder,
		logger:    logger,
	}
}

// Run classifies one uploaded image. The image is decoded before any model is
// touched, so malformed uploads never reach a classifier.
func (s *Service) Run(ctx context.Context, species string, raw []byte) (*Outcome, error) {
	profile, err := s.registry.Resolve(species)
	if err != nil {
		return nil, err
	}

	tensor, err := preprocess.Prepare(raw)
	if err != nil {
		return nil, err
	}

	res, err := s.predictor.Predict(string(profile.ID), tensor)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Species:     string(res.Species),
		Label:       res.Label,
		Explanation: s.catalog.Explain(res.Species, res.Label),
		Confidence:  res.Confidence,
		Resolved:    res.Resolved,
		Predictions: make(map[string]float32, len(res.Probabilities)),
	}
	for i, p := range res.Probabilities {
		if label, ok := profile.Label(i); ok {
			out.Predictions[label] = p
		}
	}

	s.logger.Info("Prediction served",
		zap.String("species", out.Species),
		zap.String("label", out.Label),
		zap.Float32("confidence", out.Confidence))

	if s.recorder != nil {
		_, err := s.recorder.Record(ctx, history.Entry{
			Species:    out.Species,
			Label:      out.Label,
			Confidence: out.Confidence,
			Resolved:   out.Resolved,
		})
		if err != nil {
			s.logger.Warn("Failed to record prediction", zap.Error(err))
		}
	}

	return out, nil
}
