package nn

import (
	"math"
	"testing"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
)

// TestLinear_Forward checks y = x @ W.T + b with hand-set weights.
func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(2, 3, backend)

	// W = [[1, 0], [0, 1], [1, 1]], b = [0.5, 0.5, 0.5]
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 1, 1, 1})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, 0.5, 0.5})

	input, err := tensor.FromSlice([]float32{2, 3}, tensor.Shape{1, 2}, backend)
	if err != nil {
		t.Fatalf("failed to create input: %v", err)
	}

	output := layer.Forward(input)
	if !output.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("shape = %v, want [1 3]", output.Shape())
	}

	expected := []float32{2.5, 3.5, 5.5}
	outputData := output.Data()
	for i := range expected {
		if math.Abs(float64(outputData[i]-expected[i])) > 1e-5 {
			t.Errorf("element %d: got %v, want %v", i, outputData[i], expected[i])
		}
	}
}

// TestLinear_Forward3D checks that sequence inputs are handled.
func TestLinear_Forward3D(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 8, backend)

	input := tensor.Randn(tensor.Shape{2, 5, 4}, backend)
	output := layer.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 5, 8}) {
		t.Errorf("shape = %v, want [2 5 8]", output.Shape())
	}
}

// TestLinearNoBias checks the bias-free variant used by attention
// projections.
func TestLinearNoBias(t *testing.T) {
	backend := cpu.New()
	layer := NewLinearNoBias(3, 3, backend)

	if layer.Bias() != nil {
		t.Error("NewLinearNoBias created a bias")
	}
	if len(layer.Parameters()) != 1 {
		t.Errorf("Parameters() = %d entries, want 1", len(layer.Parameters()))
	}

	// Zero input maps to zero output without a bias.
	input := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	outputData := layer.Forward(input).Data()
	for i, v := range outputData {
		if v != 0 {
			t.Errorf("element %d: got %v, want 0", i, v)
		}
	}
}

// TestLinear_XavierBound checks the initialization stays within the
// Glorot uniform bound.
func TestLinear_XavierBound(t *testing.T) {
	backend := cpu.New()
	layer := NewLinearNoBias(100, 50, backend)

	bound := float32(math.Sqrt(6.0 / 150.0))
	for i, v := range layer.Weight().Tensor().Data() {
		if v < -bound || v > bound {
			t.Fatalf("weight %d = %v outside [-%v, %v]", i, v, bound, bound)
		}
	}
}

// TestLinear_ShapeMismatch checks the input validation panic.
func TestLinear_ShapeMismatch(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 2, backend)
	input := tensor.Zeros[float32](tensor.Shape{1, 3}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for feature mismatch")
		}
	}()
	layer.Forward(input)
}
