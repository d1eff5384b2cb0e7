// Package cpu implements the CPU compute backend. Matrix products go
// through gonum's BLAS routines; element-wise operations are plain Go
// loops with NumPy-style broadcasting.
package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Backend implements tensor.Backend on the host CPU.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "cpu"
}

// Add performs element-wise addition with broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp applies op element-wise over float32 tensors. Same-shape
// inputs take a fast contiguous path; otherwise the smaller operand is
// read through zero strides (no materialized copy).
func (c *Backend) binaryOp(name string, a, b *tensor.RawTensor, op func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: requires float32 operands, got %s and %s", name, a.DType(), b.DType()))
	}

	outShape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	out, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	aData, bData, outData := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()

	if a.Shape().Equal(b.Shape()) {
		for i := range outData {
			outData[i] = op(aData[i], bData[i])
		}
		return out
	}

	aStrides := tensor.BroadcastStrides(a.Shape(), outShape)
	bStrides := tensor.BroadcastStrides(b.Shape(), outShape)
	idx := make([]int, len(outShape))
	for i := range outData {
		aOff, bOff := 0, 0
		for d := range idx {
			aOff += idx[d] * aStrides[d]
			bOff += idx[d] * bStrides[d]
		}
		outData[i] = op(aData[aOff], bData[bOff])
		increment(idx, outShape)
	}
	return out
}

// increment advances a multi-dimensional index in row-major order.
func increment(idx []int, shape tensor.Shape) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < shape[d] {
			return
		}
		idx[d] = 0
	}
}
