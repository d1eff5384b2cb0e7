package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Embedding maps token IDs to dense vectors via a learned lookup table.
//
// The weight matrix has shape [num_embeddings, dim] and is initialized
// from N(0, 1).
type Embedding[B tensor.Backend] struct {
	numEmbeddings int
	dim           int
	weight        *Parameter[B] // [num_embeddings, dim]
	backend       B
}

// NewEmbedding creates an Embedding layer.
func NewEmbedding[B tensor.Backend](numEmbeddings, dim int, backend B) *Embedding[B] {
	if numEmbeddings <= 0 || dim <= 0 {
		panic(fmt.Sprintf("Embedding: sizes must be positive, got vocab=%d dim=%d", numEmbeddings, dim))
	}
	weight := Randn(tensor.Shape{numEmbeddings, dim}, backend)
	return &Embedding[B]{
		numEmbeddings: numEmbeddings,
		dim:           dim,
		weight:        NewParameter("weight", weight),
		backend:       backend,
	}
}

// Forward gathers embedding rows for the given indices.
//
// Input: int32 indices of any shape, e.g. [batch, seq].
// Output: float32 tensor of shape indices.Shape() + [dim].
// Panics on out-of-range indices.
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return e.weight.Tensor().Embedding(indices)
}

// Parameters returns the embedding weight.
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.weight}
}

// NumEmbeddings returns the vocabulary size.
func (e *Embedding[B]) NumEmbeddings() int {
	return e.numEmbeddings
}

// Dim returns the embedding dimension.
func (e *Embedding[B]) Dim() int {
	return e.dim
}
