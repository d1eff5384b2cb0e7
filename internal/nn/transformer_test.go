package nn

import (
	"math"
	"testing"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
)

func testConfig() Config {
	return Config{
		VocabEncSize: 10,
		VocabDecSize: 12,
		DModel:       8,
		NumHeads:     2,
		NumLayers:    1,
		FFNDim:       16,
		Dropout:      0,
		MaxLen:       32,
		PadID:        0,
	}
}

// TestConfig_Validate exercises the constructor-time validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero enc vocab", func(c *Config) { c.VocabEncSize = 0 }},
		{"zero dec vocab", func(c *Config) { c.VocabDecSize = 0 }},
		{"negative d_model", func(c *Config) { c.DModel = -8 }},
		{"heads not dividing d_model", func(c *Config) { c.NumHeads = 3 }},
		{"zero layers", func(c *Config) { c.NumLayers = 0 }},
		{"dropout out of range", func(c *Config) { c.Dropout = 1 }},
		{"negative pad", func(c *Config) { c.PadID = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Errorf("Validate() accepted bad config")
			}
		})
	}
}

// TestConfig_Defaults checks MaxLen and FFNDim default resolution.
func TestConfig_Defaults(t *testing.T) {
	backend := cpu.New()
	config := testConfig()
	config.MaxLen = 0
	config.FFNDim = 0

	model, err := NewTransformer(config, backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	resolved := model.Config()
	if resolved.MaxLen != DefaultMaxLen {
		t.Errorf("MaxLen = %d, want %d", resolved.MaxLen, DefaultMaxLen)
	}
	if resolved.FFNDim != 4*config.DModel {
		t.Errorf("FFNDim = %d, want %d", resolved.FFNDim, 4*config.DModel)
	}
}

// TestTransformer_Forward runs the full model on a small padded batch
// and checks the flattened logits.
func TestTransformer_Forward(t *testing.T) {
	backend := cpu.New()
	model, err := NewTransformer(testConfig(), backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	src, _ := tensor.FromSlice([]int32{1, 2, 3, 0}, tensor.Shape{1, 4}, backend)
	tgt, _ := tensor.FromSlice([]int32{4, 5, 0, 0}, tensor.Shape{1, 4}, backend)

	logits := model.Forward(src, tgt)

	if !logits.Shape().Equal(tensor.Shape{4, 12}) {
		t.Fatalf("logits shape = %v, want [4 12]", logits.Shape())
	}
	for i, v := range logits.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("logit %d is not finite: %v", i, v)
		}
	}
}

// TestTransformer_Deterministic checks that inference mode gives the
// same logits twice.
func TestTransformer_Deterministic(t *testing.T) {
	backend := cpu.New()
	config := testConfig()
	config.Dropout = 0.3 // nonzero, but inactive outside training
	model, err := NewTransformer(config, backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}
	model.SetTraining(false)

	src, _ := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	tgt, _ := tensor.FromSlice([]int32{4, 5, 6}, tensor.Shape{1, 3}, backend)

	first := model.Forward(src, tgt).Data()
	second := model.Forward(src, tgt).Data()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("logit %d differs between identical forward passes: %v vs %v", i, first[i], second[i])
		}
	}
}

// TestTransformer_CausalMasking checks that changing a future target
// token leaves earlier positions' logits untouched.
func TestTransformer_CausalMasking(t *testing.T) {
	backend := cpu.New()
	model, err := NewTransformer(testConfig(), backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	src, _ := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	tgt1, _ := tensor.FromSlice([]int32{4, 5, 6}, tensor.Shape{1, 3}, backend)
	tgt2, _ := tensor.FromSlice([]int32{4, 5, 9}, tensor.Shape{1, 3}, backend)

	logits1 := model.Forward(src, tgt1).Data()
	logits2 := model.Forward(src, tgt2).Data()

	// Positions 0 and 1 cannot see position 2: rows 0..1 of the
	// [3, 12] logits must match exactly.
	for i := 0; i < 2*12; i++ {
		if logits1[i] != logits2[i] {
			t.Fatalf("logit %d leaked future information: %v vs %v", i, logits1[i], logits2[i])
		}
	}
}

// TestTransformer_Parameters checks that every trainable tensor is
// reachable through the registration traversal.
func TestTransformer_Parameters(t *testing.T) {
	backend := cpu.New()
	model, err := NewTransformer(testConfig(), backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	// Per encoder layer: MHA (4 weights + gamma + beta) and FFN
	// (2 weights + 2 biases + gamma + beta) = 12.
	// Per decoder layer: two MHAs + FFN = 18.
	// Plus two embeddings and the projection weight and bias.
	want := 1 + 12 + 1 + 18 + 2
	params := model.Parameters()
	if len(params) != want {
		t.Errorf("Parameters() = %d entries, want %d", len(params), want)
	}

	seen := make(map[*tensor.RawTensor]bool, len(params))
	for _, p := range params {
		if p == nil || p.Tensor() == nil {
			t.Fatal("nil parameter in traversal")
		}
		if seen[p.Tensor().Raw()] {
			t.Fatalf("parameter %q registered twice", p.Name())
		}
		seen[p.Tensor().Raw()] = true
	}
}

// TestTransformer_EncodeDecode checks the split inference entry points
// against the combined forward pass.
func TestTransformer_EncodeDecode(t *testing.T) {
	backend := cpu.New()
	model, err := NewTransformer(testConfig(), backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	src, _ := tensor.FromSlice([]int32{1, 2, 0}, tensor.Shape{1, 3}, backend)
	tgt, _ := tensor.FromSlice([]int32{4, 5, 6}, tensor.Shape{1, 3}, backend)

	combined := model.Forward(src, tgt).Data()
	split := model.Decode(src, tgt, model.Encode(src)).Data()

	for i := range combined {
		if combined[i] != split[i] {
			t.Fatalf("logit %d differs between Forward and Encode+Decode: %v vs %v", i, combined[i], split[i])
		}
	}
}

// TestTransformer_BatchMismatch checks input validation.
func TestTransformer_BatchMismatch(t *testing.T) {
	backend := cpu.New()
	model, err := NewTransformer(testConfig(), backend)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	src := tensor.Zeros[int32](tensor.Shape{2, 3}, backend)
	tgt := tensor.Zeros[int32](tensor.Shape{1, 3}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for batch size mismatch")
		}
	}()
	model.Forward(src, tgt)
}

// TestEncoder_Shape checks the encoder output shape on its own.
func TestEncoder_Shape(t *testing.T) {
	backend := cpu.New()
	enc := NewEncoder[*cpu.Backend](10, 8, 2, 2, 16, 0, 32, 0, backend)

	src, _ := tensor.FromSlice([]int32{1, 2, 3, 0, 0}, tensor.Shape{1, 5}, backend)
	output := enc.Forward(src)

	if !output.Shape().Equal(tensor.Shape{1, 5, 8}) {
		t.Errorf("shape = %v, want [1 5 8]", output.Shape())
	}
}

// TestDecoder_Shape checks the decoder output shape with differing
// source and target lengths.
func TestDecoder_Shape(t *testing.T) {
	backend := cpu.New()
	enc := NewEncoder[*cpu.Backend](10, 8, 2, 1, 16, 0, 32, 0, backend)
	dec := NewDecoder[*cpu.Backend](12, 8, 2, 1, 16, 0, 32, 0, backend)

	src, _ := tensor.FromSlice([]int32{1, 2, 3, 4, 0}, tensor.Shape{1, 5}, backend)
	tgt, _ := tensor.FromSlice([]int32{4, 5, 0}, tensor.Shape{1, 3}, backend)

	output := dec.Forward(src, tgt, enc.Forward(src))
	if !output.Shape().Equal(tensor.Shape{1, 3, 8}) {
		t.Errorf("shape = %v, want [1 3 8]", output.Shape())
	}
}
