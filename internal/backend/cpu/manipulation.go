package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Reshape returns a view over the same buffer with a new shape.
func (c *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return t.View(newShape)
}

// Transpose permutes dimensions into a fresh contiguous tensor. With no
// axes given, all dimensions are reversed.
func (c *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	nd := len(shape)

	if len(axes) == 0 {
		axes = make([]int, nd)
		for i := range axes {
			axes[i] = nd - 1 - i
		}
	}
	if len(axes) != nd {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", nd, len(axes)))
	}
	seen := make([]bool, nd)
	for _, ax := range axes {
		if ax < 0 || ax >= nd || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v for shape %v", axes, shape))
		}
		seen[ax] = true
	}

	outShape := make(tensor.Shape, nd)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}

	out, err := tensor.NewRaw(outShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	inStrides := t.Strides()
	permStrides := make([]int, nd)
	for i, ax := range axes {
		permStrides[i] = inStrides[ax]
	}

	elemSize := t.DType().Size()
	src, dst := t.Data(), out.Data()
	idx := make([]int, nd)
	total := out.NumElements()
	for i := 0; i < total; i++ {
		srcOff := 0
		for d := range idx {
			srcOff += idx[d] * permStrides[d]
		}
		copy(dst[i*elemSize:(i+1)*elemSize], src[srcOff*elemSize:(srcOff+1)*elemSize])
		increment(idx, outShape)
	}
	return out
}

// Unsqueeze inserts a dimension of size 1 at position dim. Shares the
// underlying buffer.
func (c *Backend) Unsqueeze(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("unsqueeze: dim %d out of range for shape %v", dim, shape))
	}
	newShape := make(tensor.Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return t.View(newShape)
}
