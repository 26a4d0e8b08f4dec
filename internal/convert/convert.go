// Package convert packages a trained ONNX model into a directory that browser
// runtimes (onnxruntime-web) can fetch directly: the model bytes plus a
// model.json manifest describing its tensors and labels. It runs offline and
// is never called while serving.
package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/model"
	"github.com/Brownie44l1/plant-disease-api/internal/preprocess"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

const (
	ModelFile    = "model.onnx"
	ManifestFile = "model.json"
)

// Inspector reads a model's graph signature.
type Inspector func(modelPath string) (*model.IOInfo, error)

type Converter struct {
	inspect Inspector
	logger  *zap.Logger
}

func New(inspect Inspector, logger *zap.Logger) *Converter {
	return &Converter{inspect: inspect, logger: logger}
}

// Convert writes outDir/model.onnx and outDir/model.json for the given profile.
// src defaults to the profile's model location when empty.
func (c *Converter) Convert(profile registry.Profile, src, outDir string) (*model.Metadata, error) {
	if src == "" {
		src = profile.ModelPath
	}

	info, err := c.inspect(src)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", src, err)
	}
	if got := int(product(info.OutputShape)); got != profile.ClassCount() {
		return nil, fmt.Errorf("model emits %d classes but %s has %d labels", got, profile.ID, profile.ClassCount())
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := copyFile(src, filepath.Join(outDir, ModelFile)); err != nil {
		return nil, err
	}

	meta := &model.Metadata{
		Species:     string(profile.ID),
		Format:      "onnx",
		ModelFile:   ModelFile,
		InputName:   info.InputName,
		OutputName:  info.OutputName,
		InputShape:  info.InputShape,
		OutputShape: info.OutputShape,
		Classes:     profile.Labels(),
		ImageSize:   preprocess.Size,
		Scale:       1.0 / 255.0,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	c.logger.Info("Model converted",
		zap.String("species", meta.Species),
		zap.String("source", src),
		zap.String("out_dir", outDir),
		zap.Int64s("input_shape", meta.InputShape),
		zap.Int64s("output_shape", meta.OutputShape))
	return meta, nil
}

func product(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open model: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy model: %w", err)
	}
	return out.Close()
}
