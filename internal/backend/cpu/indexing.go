package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Embedding gathers rows of a [vocab, dim] float32 weight matrix by
// int32 indices, producing indices.Shape() + [dim]. Out-of-range
// indices panic.
func (c *Backend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	if weight.DType() != tensor.Float32 {
		panic(fmt.Sprintf("embedding: requires float32 weight, got %s", weight.DType()))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: requires int32 indices, got %s", indices.DType()))
	}
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [vocab, dim], got %v", wShape))
	}
	vocab, dim := wShape[0], wShape[1]

	outShape := append(indices.Shape().Clone(), dim)
	out, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("embedding: %v", err))
	}

	wData, outData := weight.AsFloat32(), out.AsFloat32()
	for i, id := range indices.AsInt32() {
		if id < 0 || int(id) >= vocab {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", id, vocab))
		}
		copy(outData[i*dim:(i+1)*dim], wData[int(id)*dim:(int(id)+1)*dim])
	}
	return out
}
