package cpu

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (c *Backend) MulScalar(t *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return c.unaryOp("mulscalar", t, func(x float32) float32 { return x * scalar })
}

// AddScalar adds a scalar to every element.
func (c *Backend) AddScalar(t *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return c.unaryOp("addscalar", t, func(x float32) float32 { return x + scalar })
}

// Rsqrt computes 1/sqrt(x) element-wise.
func (c *Backend) Rsqrt(t *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("rsqrt", t, func(x float32) float32 {
		return float32(1.0 / math.Sqrt(float64(x)))
	})
}

// Relu computes max(0, x) element-wise.
func (c *Backend) Relu(t *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("relu", t, func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	})
}

func (c *Backend) unaryOp(name string, t *tensor.RawTensor, op func(x float32) float32) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: requires float32, got %s", name, t.DType()))
	}
	out, err := tensor.NewRaw(t.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	src, dst := t.AsFloat32(), out.AsFloat32()
	for i := range src {
		dst[i] = op(src[i])
	}
	return out
}

// Softmax normalizes along the given dimension with max subtraction for
// numerical stability. Negative dims count from the end.
func (c *Backend) Softmax(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("softmax: requires float32, got %s", t.DType()))
	}
	shape := t.Shape()
	nd := len(shape)
	if dim < 0 {
		dim += nd
	}
	if dim < 0 || dim >= nd {
		panic(fmt.Sprintf("softmax: dim out of range for shape %v", shape))
	}

	out, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
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
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in

			maxVal := src[base]
			for i := 1; i < size; i++ {
				if v := src[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum float32
			for i := 0; i < size; i++ {
				e := float32(math.Exp(float64(src[base+i*inner] - maxVal)))
				dst[base+i*inner] = e
				sum += e
			}
			for i := 0; i < size; i++ {
				dst[base+i*inner] /= sum
			}
		}
	}
	return out
}
