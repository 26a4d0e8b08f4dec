package model

// Classifier runs one forward pass over a preprocessed image batch and returns
// the per-class probability vector.
type Classifier interface {
	Predict(input []float32) ([]float32, error)
	// OutputWidth is the number of classes the model emits.
	OutputWidth() int
	Close() error
}
