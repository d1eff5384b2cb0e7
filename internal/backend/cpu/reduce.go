package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// MeanDim computes the mean along a dimension. Negative dims count from
// the end. With keepDim the reduced dimension stays as size 1.
func (c *Backend) MeanDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("meandim: requires float32, got %s", t.DType()))
	}
	shape := t.Shape()
	nd := len(shape)
	if dim < 0 {
		dim += nd
	}
	if dim < 0 || dim >= nd {
		panic(fmt.Sprintf("meandim: dim out of range for shape %v", shape))
	}

	outShape := make(tensor.Shape, 0, nd)
	for d, s := range shape {
		if d == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	out, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("meandim: %v", err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	size := shape[dim]
	inner := 1
	for d := dim + 1; d < nd; d++ {
		inner *= shape[d]
	}

	src, dst := t.AsFloat32(), out.AsFloat32()
	inv := 1.0 / float32(size)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum float32
			base := o*size*inner + in
			for i := 0; i < size; i++ {
				sum += src[base+i*inner]
			}
			dst[o*inner+in] = sum * inv
		}
	}
	return out
}
