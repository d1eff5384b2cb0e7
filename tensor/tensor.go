// Copyright 2026 Weft ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType identifies a tensor's runtime element type.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Int32   = tensor.Int32
	Bool    = tensor.Bool
)

// DType is the compile-time constraint on tensor element types.
type DType = tensor.DType

// RawTensor is the untyped tensor representation backends operate on.
type RawTensor = tensor.RawTensor

// Backend defines the interface compute backends must implement.
type Backend = tensor.Backend

// Tensor is a generic tensor with element type T computed by backend B.
type Tensor[T tensor.DType, B tensor.Backend] = tensor.Tensor[T, B]

// New wraps a RawTensor with a typed Tensor.
func New[T tensor.DType, B tensor.Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates a zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor by copying a Go slice.
func FromSlice[T tensor.DType, B tensor.Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T tensor.DType, B tensor.Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T tensor.DType, B tensor.Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T tensor.DType, B tensor.Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a float32 tensor with values drawn from N(0, 1).
func Randn[B tensor.Backend](shape Shape, b B) *Tensor[float32, B] {
	return tensor.Randn(shape, b)
}

// Arange creates a 1-D int32 tensor with values [start, end).
func Arange[B tensor.Backend](start, end int32, b B) *Tensor[int32, B] {
	return tensor.Arange(start, end, b)
}

// BroadcastShapes computes the broadcast result shape of two shapes.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
