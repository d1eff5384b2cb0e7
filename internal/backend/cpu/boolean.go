package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Or computes element-wise logical OR of two bool tensors of equal shape.
func (c *Backend) Or(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Bool || b.DType() != tensor.Bool {
		panic(fmt.Sprintf("or: requires bool operands, got %s and %s", a.DType(), b.DType()))
	}
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("or: shape mismatch: %v vs %v", a.Shape(), b.Shape()))
	}

	out, err := tensor.NewRaw(a.Shape(), tensor.Bool)
	if err != nil {
		panic(fmt.Sprintf("or: %v", err))
	}
	aData, bData, outData := a.AsBool(), b.AsBool(), out.AsBool()
	for i := range outData {
		outData[i] = aData[i] || bData[i]
	}
	return out
}

// MaskedFill copies x, writing value wherever mask is true. The mask
// broadcasts right-aligned against x, so a [batch, 1, q, k] mask covers
// every attention head of a [batch, heads, q, k] score tensor without a
// per-head copy.
func (c *Backend) MaskedFill(x, mask *tensor.RawTensor, value float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("maskedfill: requires float32 input, got %s", x.DType()))
	}
	if mask.DType() != tensor.Bool {
		panic(fmt.Sprintf("maskedfill: requires bool mask, got %s", mask.DType()))
	}

	outShape, err := tensor.BroadcastShapes(x.Shape(), mask.Shape())
	if err != nil {
		panic(fmt.Sprintf("maskedfill: %v", err))
	}
	if !outShape.Equal(x.Shape()) {
		panic(fmt.Sprintf("maskedfill: mask %v does not broadcast into input %v", mask.Shape(), x.Shape()))
	}

	out, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("maskedfill: %v", err))
	}

	src, dst := x.AsFloat32(), out.AsFloat32()
	maskData := mask.AsBool()
	maskStrides := tensor.BroadcastStrides(mask.Shape(), outShape)
	idx := make([]int, len(outShape))
	for i := range dst {
		mOff := 0
		for d := range idx {
			mOff += idx[d] * maskStrides[d]
		}
		if maskData[mOff] {
			dst[i] = value
		} else {
			dst[i] = src[i]
		}
		increment(idx, outShape)
	}
	return out
}
