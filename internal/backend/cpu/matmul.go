package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/weft-ml/weft/internal/parallel"
	"github.com/weft-ml/weft/internal/tensor"
)

// MatMul performs 2-D matrix multiplication via BLAS sgemm.
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("matmul: requires float32 operands, got %s and %s", a.DType(), b.DType()))
	}
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: requires 2D tensors, got %v and %v", aShape, bShape))
	}
	m, k := aShape[0], aShape[1]
	k2, n := bShape[0], bShape[1]
	if k != k2 {
		panic(fmt.Sprintf("matmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	out, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("matmul: %v", err))
	}
	gemm(m, k, n, a.AsFloat32(), b.AsFloat32(), out.AsFloat32())
	return out
}

// BatchMatMul multiplies the trailing two dimensions of 3-D or 4-D
// tensors; all leading dimensions must match exactly. Batches run in
// parallel.
func (c *Backend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("batchmatmul: requires float32 operands, got %s and %s", a.DType(), b.DType()))
	}
	aShape, bShape := a.Shape(), b.Shape()
	nd := len(aShape)
	if nd != len(bShape) || nd < 3 || nd > 4 {
		panic(fmt.Sprintf("batchmatmul: requires matching 3D or 4D tensors, got %v and %v", aShape, bShape))
	}

	batch := 1
	for d := 0; d < nd-2; d++ {
		if aShape[d] != bShape[d] {
			panic(fmt.Sprintf("batchmatmul: leading dimensions mismatch: %v vs %v", aShape, bShape))
		}
		batch *= aShape[d]
	}

	m, k := aShape[nd-2], aShape[nd-1]
	k2, n := bShape[nd-2], bShape[nd-1]
	if k != k2 {
		panic(fmt.Sprintf("batchmatmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	outShape := aShape.Clone()
	outShape[nd-1] = n
	out, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: %v", err))
	}

	aData, bData, outData := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
	aStep, bStep, outStep := m*k, k*n, m*n

	if err := parallel.For(batch, func(i int) error {
		gemm(m, k, n,
			aData[i*aStep:(i+1)*aStep],
			bData[i*bStep:(i+1)*bStep],
			outData[i*outStep:(i+1)*outStep])
		return nil
	}); err != nil {
		panic(fmt.Sprintf("batchmatmul: %v", err))
	}
	return out
}

// gemm computes c = a @ b for row-major contiguous float32 buffers.
func gemm(m, k, n int, a, b, c []float32) {
	ga := blas32.General{Rows: m, Cols: k, Stride: k, Data: a}
	gb := blas32.General{Rows: k, Cols: n, Stride: n, Data: b}
	gc := blas32.General{Rows: m, Cols: n, Stride: n, Data: c}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, ga, gb, 0, gc)
}
