package predict

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
	"github.com/Brownie44l1/plant-disease-api/internal/preprocess"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

// Unresolved is reported as the label when the winning class index has no
// entry in the species' label table.
const Unresolved = "unresolved"

type ClassifierLoader interface {
	Load(id string) (model.Classifier, error)
}

type Result struct {
	Species       registry.Species
	Label         string
	Index         int
	Confidence    float32
	Probabilities []float32
	Resolved      bool
}

type Predictor struct {
	registry *registry.Registry
	loader   ClassifierLoader
	logger   *zap.Logger
}

func New(reg *registry.Registry, loader ClassifierLoader, logger *zap.Logger) *Predictor {
	return &Predictor{registry: reg, loader: loader, logger: logger}
}

func (p *Predictor) Predict(id string, tensor *preprocess.Tensor) (*Result, error) {
	profile, err := p.registry.Resolve(id)
	if err != nil {
		return nil, err
	}

	classifier, err := p.loader.Load(string(profile.ID))
	if err != nil {
		return nil, err
	}

	probs, err := classifier.Predict(tensor.Data)
	if err != nil {
		return nil, failure.New(failure.KindInference, "predict.Predict",
			fmt.Errorf("%s classifier: %w", profile.ID, err))
	}

	idx, conf := Argmax(probs)
	res := &Result{
		Species:       profile.ID,
		Label:         Unresolved,
		Index:         idx,
		Confidence:    conf,
		Probabilities: probs,
	}
	if label, ok := profile.Label(idx); ok {
		res.Label = label
		res.Resolved = true
	} else {
		p.logger.Warn("Predicted class has no label",
			zap.String("species", string(profile.ID)),
			zap.Int("index", idx),
			zap.Int("labels", profile.ClassCount()))
	}
	return res, nil
}

// Argmax returns the index and value of the largest element. Ties go to the
// lowest index. NaN values never win. An empty or all-NaN vector yields -1.
func Argmax(v []float32) (int, float32) {
	idx := -1
	var best float32
	for i, x := range v {
		if math.IsNaN(float64(x)) {
			continue
		}
		if idx == -1 || x > best {
			idx, best = i, x
		}
	}
	return idx, best
}
