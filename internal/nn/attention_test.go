package nn

import (
	"math"
	"testing"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
)

// TestScaledDotProductAttention_Shapes checks output and weight shapes.
func TestScaledDotProductAttention_Shapes(t *testing.T) {
	backend := cpu.New()

	q := tensor.Randn(tensor.Shape{2, 4, 5, 8}, backend)
	k := tensor.Randn(tensor.Shape{2, 4, 7, 8}, backend)
	v := tensor.Randn(tensor.Shape{2, 4, 7, 8}, backend)

	output, weights := ScaledDotProductAttention(q, k, v, nil, nil)

	if !output.Shape().Equal(tensor.Shape{2, 4, 5, 8}) {
		t.Errorf("output shape = %v, want [2 4 5 8]", output.Shape())
	}
	if !weights.Shape().Equal(tensor.Shape{2, 4, 5, 7}) {
		t.Errorf("weights shape = %v, want [2 4 5 7]", weights.Shape())
	}
}

// TestScaledDotProductAttention_RowsSumToOne checks softmax
// normalization of the attention weights.
func TestScaledDotProductAttention_RowsSumToOne(t *testing.T) {
	backend := cpu.New()

	q := tensor.Randn(tensor.Shape{1, 2, 3, 4}, backend)
	k := tensor.Randn(tensor.Shape{1, 2, 3, 4}, backend)
	v := tensor.Randn(tensor.Shape{1, 2, 3, 4}, backend)

	_, weights := ScaledDotProductAttention(q, k, v, nil, nil)

	data := weights.Data()
	for row := 0; row < 2*3; row++ {
		var sum float32
		for j := 0; j < 3; j++ {
			sum += data[row*3+j]
		}
		if math.Abs(float64(sum-1)) > 1e-5 {
			t.Errorf("row %d sums to %v, want 1", row, sum)
		}
	}
}

// TestScaledDotProductAttention_Masked checks that masked positions
// receive near-zero weight.
func TestScaledDotProductAttention_Masked(t *testing.T) {
	backend := cpu.New()

	q := tensor.Randn(tensor.Shape{1, 1, 2, 4}, backend)
	k := tensor.Randn(tensor.Shape{1, 1, 3, 4}, backend)
	v := tensor.Randn(tensor.Shape{1, 1, 3, 4}, backend)

	// Block key 2 for every query.
	mask := tensor.Zeros[bool](tensor.Shape{1, 1, 2, 3}, backend)
	mask.Set(true, 0, 0, 0, 2)
	mask.Set(true, 0, 0, 1, 2)

	_, weights := ScaledDotProductAttention(q, k, v, mask, nil)

	for i := 0; i < 2; i++ {
		if w := weights.At(0, 0, i, 2); w > 1e-6 {
			t.Errorf("masked weight [%d][2] = %v, want ~0", i, w)
		}
		sum := weights.At(0, 0, i, 0) + weights.At(0, 0, i, 1) + weights.At(0, 0, i, 2)
		if math.Abs(float64(sum-1)) > 1e-5 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

// TestScaledDotProductAttention_FullyMaskedRow checks that a row with
// every key masked stays finite (uniform weights after the constant
// fill).
func TestScaledDotProductAttention_FullyMaskedRow(t *testing.T) {
	backend := cpu.New()

	q := tensor.Randn(tensor.Shape{1, 1, 1, 4}, backend)
	k := tensor.Randn(tensor.Shape{1, 1, 3, 4}, backend)
	v := tensor.Randn(tensor.Shape{1, 1, 3, 4}, backend)

	mask := tensor.Ones[bool](tensor.Shape{1, 1, 1, 3}, backend)

	output, weights := ScaledDotProductAttention(q, k, v, mask, nil)

	for _, w := range weights.Data() {
		if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			t.Fatalf("non-finite weight %v in fully masked row", w)
		}
		if math.Abs(float64(w-1.0/3)) > 1e-5 {
			t.Errorf("weight = %v, want uniform 1/3", w)
		}
	}
	for _, o := range output.Data() {
		if math.IsNaN(float64(o)) || math.IsInf(float64(o), 0) {
			t.Fatalf("non-finite output %v in fully masked row", o)
		}
	}
}

// TestScaledDotProductAttention_PeakedScores checks that a dominant
// key receives almost all the weight.
func TestScaledDotProductAttention_PeakedScores(t *testing.T) {
	backend := cpu.New()

	// Query aligned with key 1 and orthogonal to keys 0 and 2.
	q, _ := tensor.FromSlice([]float32{0, 100}, tensor.Shape{1, 1, 1, 2}, backend)
	k, _ := tensor.FromSlice([]float32{
		1, 0,
		0, 1,
		-1, 0,
	}, tensor.Shape{1, 1, 3, 2}, backend)
	v, _ := tensor.FromSlice([]float32{
		10, 0,
		20, 0,
		30, 0,
	}, tensor.Shape{1, 1, 3, 2}, backend)

	output, weights := ScaledDotProductAttention(q, k, v, nil, nil)

	if w := weights.At(0, 0, 0, 1); w < 0.999 {
		t.Errorf("dominant key weight = %v, want ~1", w)
	}
	if o := output.At(0, 0, 0, 0); math.Abs(float64(o-20)) > 0.1 {
		t.Errorf("output = %v, want ~20 (value of dominant key)", o)
	}
}

// TestScaledDotProductAttention_BadRank checks input validation.
func TestScaledDotProductAttention_BadRank(t *testing.T) {
	backend := cpu.New()
	q := tensor.Randn(tensor.Shape{2, 3, 4}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for 3D input")
		}
	}()
	ScaledDotProductAttention(q, q, q, nil, nil)
}
