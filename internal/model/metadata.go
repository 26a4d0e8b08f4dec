package model

import "fmt"

// Metadata describes a model's tensors and class labels. It is written next to
// converted models as model.json so browser runtimes can load them without
// inspecting the graph.
type Metadata struct {
	Species     string   `json:"species"`
	Format      string   `json:"format"`
	ModelFile   string   `json:"model_file"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	Scale       float64  `json:"scale"`
}

// InputShape is the batch layout every leaf classifier accepts: NHWC float32.
var InputShape = []int64{1, 256, 256, 3}

// checkInputShape rejects models whose input layout differs from InputShape,
// such as NCHW graphs that would otherwise accept the same number of values.
func checkInputShape(shape []int64) error {
	if len(shape) != len(InputShape) {
		return fmt.Errorf("model input %v has rank %d, want %v", shape, len(shape), InputShape)
	}
	for i, d := range shape {
		if d != InputShape[i] {
			return fmt.Errorf("model input %v does not match %v", shape, InputShape)
		}
	}
	return nil
}

func elements(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}
