package nn

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// PositionalEncoding adds fixed sinusoidal position information to
// token embeddings, as in "Attention is All You Need" (Vaswani et al.,
// 2017):
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/d))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/d))
//
// The table is precomputed for maxLen positions at construction and is
// not trainable. Forward adds the first seqLen rows to the input and
// applies dropout; the input tensor itself is never modified.
type PositionalEncoding[B tensor.Backend] struct {
	encoding *tensor.Tensor[float32, B] // [max_len, dim]
	dropout  *Dropout[B]
	maxLen   int
	dim      int
	backend  B
}

// NewPositionalEncoding precomputes the sinusoid table for maxLen
// positions of dimension dim.
func NewPositionalEncoding[B tensor.Backend](dim int, dropoutP float32, maxLen int, backend B) *PositionalEncoding[B] {
	if maxLen <= 0 {
		panic(fmt.Sprintf("PositionalEncoding: maxLen must be positive, got %d", maxLen))
	}
	if dim <= 0 {
		panic(fmt.Sprintf("PositionalEncoding: dim must be positive, got %d", dim))
	}

	encodings := make([]float32, maxLen*dim)
	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dim; i++ {
			angle := float64(pos) / math.Pow(10000.0, float64(2*(i/2))/float64(dim))
			idx := pos*dim + i
			if i%2 == 0 {
				encodings[idx] = float32(math.Sin(angle))
			} else {
				encodings[idx] = float32(math.Cos(angle))
			}
		}
	}

	encoding, err := tensor.FromSlice[float32, B](encodings, tensor.Shape{maxLen, dim}, backend)
	if err != nil {
		panic(fmt.Sprintf("PositionalEncoding: %v", err))
	}

	return &PositionalEncoding[B]{
		encoding: encoding,
		dropout:  NewDropout[B](dropoutP),
		maxLen:   maxLen,
		dim:      dim,
		backend:  backend,
	}
}

// Forward returns input + PE[:seqLen] followed by dropout.
//
// Input: [batch, seq, dim]. Output has the same shape and is a fresh
// tensor; the input is left untouched so callers may reuse it.
// Panics if seq exceeds the precomputed table length.
func (p *PositionalEncoding[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected 3D input [batch, seq, dim], got %v", shape))
	}
	seqLen := shape[1]
	if seqLen > p.maxLen {
		panic(fmt.Sprintf("PositionalEncoding.Forward: seq length %d exceeds maxLen %d", seqLen, p.maxLen))
	}
	if shape[2] != p.dim {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected dim %d, got %d", p.dim, shape[2]))
	}

	// Slice [seqLen, dim] rows and lift to [1, seqLen, dim] for
	// broadcast over the batch.
	encData := p.encoding.Data()[:seqLen*p.dim]
	slice, err := tensor.FromSlice[float32, B](encData, tensor.Shape{1, seqLen, p.dim}, p.backend)
	if err != nil {
		panic(fmt.Sprintf("PositionalEncoding.Forward: %v", err))
	}

	return p.dropout.Forward(input.Add(slice))
}

// SetTraining toggles dropout.
func (p *PositionalEncoding[B]) SetTraining(training bool) {
	p.dropout.SetTraining(training)
}

// Encoding returns the precomputed [max_len, dim] table.
func (p *PositionalEncoding[B]) Encoding() *tensor.Tensor[float32, B] {
	return p.encoding
}

// MaxLen returns the number of precomputed positions.
func (p *PositionalEncoding[B]) MaxLen() int {
	return p.maxLen
}

// Parameters returns an empty slice; the table is fixed.
func (p *PositionalEncoding[B]) Parameters() []*Parameter[B] {
	return nil
}
