// Copyright 2026 Weft ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
	"github.com/weft-ml/weft/nn"
)

// TestModuleInterface verifies that single-input layers satisfy the
// Module interface through the public facade.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
	}{
		{"Linear", nn.NewLinear(10, 5, backend)},
		{"LayerNorm", nn.NewLayerNorm(10, backend)},
		{"Dropout", nn.NewDropout[*cpu.Backend](0.1)},
		{"FeedForward", nn.NewFeedForward(10, 20, 0, backend)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn(tensor.Shape{2, 10}, backend)
			output := tt.module.Forward(input)
			if output == nil {
				t.Fatal("Forward returned nil")
			}
			// Parameters may legitimately be empty (Dropout) but the
			// call must work.
			_ = tt.module.Parameters()
		})
	}
}

// TestFacadeTransformer runs the full model through the public API.
func TestFacadeTransformer(t *testing.T) {
	backend := cpu.New()

	model, err := nn.NewTransformer(nn.Config{
		VocabEncSize: 10,
		VocabDecSize: 12,
		DModel:       8,
		NumHeads:     2,
		NumLayers:    1,
		MaxLen:       16,
	}, backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	src, _ := tensor.FromSlice([]int32{1, 2, 3, 0}, tensor.Shape{1, 4}, backend)
	tgt, _ := tensor.FromSlice([]int32{4, 5, 0, 0}, tensor.Shape{1, 4}, backend)

	logits := model.Forward(src, tgt)
	if !logits.Shape().Equal(tensor.Shape{4, 12}) {
		t.Errorf("logits shape = %v, want [4 12]", logits.Shape())
	}
}
