// Package preprocess turns uploaded image bytes into the fixed-size NHWC
// float tensor the leaf classifiers expect.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
)

const (
	Size     = 256
	Channels = 3

	// MaxPixels caps the decoded size of an upload. Compressed formats can
	// describe far larger images than the upload limit suggests.
	MaxPixels = 50_000_000
)

// Tensor is a single-item batch laid out as (1, Size, Size, Channels).
type Tensor struct {
	Data  []float32
	Shape [4]int
}

func (t *Tensor) Len() int {
	return len(t.Data)
}

// Prepare decodes a JPEG or PNG, crops it to a square around its centre,
// resamples to Size×Size with Lanczos3 and scales every channel into [0,1].
func Prepare(raw []byte) (*Tensor, error) {
	if len(raw) == 0 {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare", fmt.Errorf("empty image"))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare", fmt.Errorf("decode image header: %w", err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare", fmt.Errorf("image has no pixels"))
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare",
			fmt.Errorf("image is %dx%d, larger than %d pixels", cfg.Width, cfg.Height, MaxPixels))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare", fmt.Errorf("decode image: %w", err))
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, failure.New(failure.KindDecode, "preprocess.Prepare", fmt.Errorf("image has no pixels"))
	}
	return FromImage(img), nil
}

func FromImage(img image.Image) *Tensor {
	fitted := Fit(img, Size, Size)
	bounds := fitted.Bounds()

	t := &Tensor{
		Data:  make([]float32, Size*Size*Channels),
		Shape: [4]int{1, Size, Size, Channels},
	}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			r, g, b, _ := fitted.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*Size + x) * Channels
			t.Data[i] = float32(r>>8) / 255.0
			t.Data[i+1] = float32(g>>8) / 255.0
			t.Data[i+2] = float32(b>>8) / 255.0
		}
	}
	return t
}

// Fit crops img to the width:height ratio of the target around its centre and
// then resamples to exactly width×height. Nothing is stretched. Alpha is
// dropped and colour channels are kept as stored, so transparent pixels do
// not turn black.
func Fit(img image.Image, width, height int) image.Image {
	crop := cropBox(img.Bounds(), width, height)
	cropped := image.NewNRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	for y := 0; y < crop.Dy(); y++ {
		for x := 0; x < crop.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(crop.Min.X+x, crop.Min.Y+y)).(color.NRGBA)
			c.A = 255
			cropped.SetNRGBA(x, y, c)
		}
	}
	return resize.Resize(uint(width), uint(height), cropped, resize.Lanczos3)
}

func cropBox(b image.Rectangle, width, height int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	cw, ch := w, h
	if w*height > h*width {
		cw = h * width / height
	} else {
		ch = w * height / width
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	x0 := b.Min.X + (w-cw)/2
	y0 := b.Min.Y + (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}
