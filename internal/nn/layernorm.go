package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// LayerNorm normalizes the last dimension to zero mean and unit
// variance, then applies a learned affine transform:
//
//	y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// Gamma is initialized to ones and beta to zeros, so a freshly
// constructed LayerNorm is a pure normalization. Both are persistent
// trainable parameters owned by the layer.
type LayerNorm[B tensor.Backend] struct {
	dim     int
	eps     float32
	gamma   *Parameter[B] // [dim]
	beta    *Parameter[B] // [dim]
	backend B
}

// DefaultLayerNormEps matches the conventional epsilon of 1e-5.
const DefaultLayerNormEps = 1e-5

// NewLayerNorm creates a LayerNorm over the last dimension of size dim.
func NewLayerNorm[B tensor.Backend](dim int, backend B) *LayerNorm[B] {
	if dim <= 0 {
		panic(fmt.Sprintf("LayerNorm: dim must be positive, got %d", dim))
	}
	return &LayerNorm[B]{
		dim:     dim,
		eps:     DefaultLayerNormEps,
		gamma:   NewParameter("gamma", Ones(tensor.Shape{dim}, backend)),
		beta:    NewParameter("beta", Zeros(tensor.Shape{dim}, backend)),
		backend: backend,
	}
}

// Forward normalizes the last dimension of the input.
//
// Input: [..., dim]. Output has the same shape.
func (ln *LayerNorm[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if shape[len(shape)-1] != ln.dim {
		panic(fmt.Sprintf("LayerNorm.Forward: expected last dimension %d, got shape %v", ln.dim, shape))
	}

	mean := input.MeanDim(-1, true)          // [..., 1]
	centered := input.Sub(mean)              // [..., dim]
	variance := centered.Mul(centered).MeanDim(-1, true)
	invStd := variance.AddScalar(ln.eps).Rsqrt()

	normalized := centered.Mul(invStd)

	// gamma/beta [dim] broadcast right-aligned against [..., dim].
	return normalized.Mul(ln.gamma.Tensor()).Add(ln.beta.Tensor())
}

// Parameters returns [gamma, beta].
func (ln *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{ln.gamma, ln.beta}
}

// Gamma returns the scale parameter.
func (ln *LayerNorm[B]) Gamma() *Parameter[B] {
	return ln.gamma
}

// Beta returns the shift parameter.
func (ln *LayerNorm[B]) Beta() *Parameter[B] {
	return ln.beta
}
