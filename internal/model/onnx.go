package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var runtimeMu sync.Mutex

// InitRuntime loads the ONNX Runtime shared library once per process. An empty
// path leaves the library lookup to onnxruntime_go's platform default.
func InitRuntime(sharedLibrary string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if sharedLibrary != "" {
		ort.SetSharedLibraryPath(sharedLibrary)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

func ShutdownRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// IOInfo names a model's single input and output along with their concrete
// shapes (dynamic batch dimensions are pinned to 1).
type IOInfo struct {
	InputName   string
	OutputName  string
	InputShape  []int64
	OutputShape []int64
}

// Inspect reads the graph signature of an ONNX file without creating a session.
func Inspect(modelPath string) (*IOInfo, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model signature: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("expected 1 input and 1 output, model has %d and %d", len(inputs), len(outputs))
	}
	return &IOInfo{
		InputName:   inputs[0].Name,
		OutputName:  outputs[0].Name,
		InputShape:  concrete(inputs[0].Dimensions),
		OutputShape: concrete(outputs[0].Dimensions),
	}, nil
}

func concrete(dims ort.Shape) []int64 {
	shape := make([]int64, len(dims))
	for i, d := range dims {
		if d < 1 {
			d = 1
		}
		shape[i] = d
	}
	return shape
}

// ONNXClassifier owns an ONNX Runtime session with pre-bound tensors. Runs are
// serialized because the bound tensors are reused.
type ONNXClassifier struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	width        int
}

func NewONNXClassifier(modelPath string) (*ONNXClassifier, error) {
	info, err := Inspect(modelPath)
	if err != nil {
		return nil, err
	}
	if err := checkInputShape(info.InputShape); err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(info.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{info.InputName}, []string{info.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXClassifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		width:        int(elements(info.OutputShape)),
	}, nil
}

func (c *ONNXClassifier) Predict(input []float32) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst := c.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(dst), len(input))
	}
	copy(dst, input)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return append([]float32(nil), c.outputTensor.GetData()...), nil
}

func (c *ONNXClassifier) OutputWidth() int {
	return c.width
}

func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inputTensor != nil {
		c.inputTensor.Destroy()
		c.inputTensor = nil
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
		c.outputTensor = nil
	}
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return err
		}
		c.session = nil
	}
	return nil
}
