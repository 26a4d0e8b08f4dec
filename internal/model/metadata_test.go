package model

import "testing"

func TestCheckInputShape(t *testing.T) {
	tests := []struct {
		name  string
		shape []int64
		ok    bool
	}{
		{"nhwc", []int64{1, 256, 256, 3}, true},
		{"nchw", []int64{1, 3, 256, 256}, false},
		{"no batch", []int64{256, 256, 3}, false},
		{"wrong size", []int64{1, 224, 224, 3}, false},
		{"flat", []int64{196608}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkInputShape(tt.shape)
			if (err == nil) != tt.ok {
				t.Fatalf("checkInputShape(%v) = %v, want ok=%v", tt.shape, err, tt.ok)
			}
		})
	}
}
