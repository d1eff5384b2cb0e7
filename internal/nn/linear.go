package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ W.T + b.
//
// The weight matrix has shape [out_features, in_features] and is
// initialized with Xavier/Glorot uniform values; the bias (when
// present) has shape [out_features] and is initialized to zeros.
//
// Forward accepts 2-D [batch, in] or 3-D [batch, seq, in] input; a 3-D
// input is flattened to [batch*seq, in] for the matrix product and
// restored afterwards.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(512, 2048, backend)
//	out := layer.Forward(x) // [batch, seq, 512] -> [batch, seq, 2048]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features], nil when bias-free
	backend     B
}

// NewLinear creates a Linear layer with a bias vector.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	l := NewLinearNoBias(inFeatures, outFeatures, backend)
	l.bias = NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))
	return l
}

// NewLinearNoBias creates a Linear layer without a bias vector, as used
// by the attention projections.
func NewLinearNoBias[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("Linear: features must be positive, got in=%d out=%d", inFeatures, outFeatures))
	}
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch, in_features] or [batch, seq, in_features].
// Output has the same leading dimensions with in_features replaced by
// out_features.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	nd := len(shape)
	if nd != 2 && nd != 3 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D or 3D input, got shape %v", shape))
	}
	if shape[nd-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[nd-1]))
	}

	x := input
	if nd == 3 {
		x = input.Reshape(shape[0]*shape[1], l.inFeatures)
	}

	// [rows, in] @ [in, out] = [rows, out]
	output := x.MatMul(l.weight.Tensor().T())

	if l.bias != nil {
		output = output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
	}

	if nd == 3 {
		output = output.Reshape(shape[0], shape[1], l.outFeatures)
	}
	return output
}

// Parameters returns [weight, bias], or [weight] for bias-free layers.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.bias != nil {
		return []*Parameter[B]{l.weight, l.bias}
	}
	return []*Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, or nil for bias-free layers.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
