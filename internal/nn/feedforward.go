package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// FeedForward is the position-wise feed-forward block:
//
//	output = LayerNorm(W2 ReLU(Dropout(W1 x)) + x)
//
// Dropout sits between the expansion and the activation; the residual
// and its LayerNorm wrap the whole block.
type FeedForward[B tensor.Backend] struct {
	dModel  int
	fc1     *Linear[B] // [d_model -> ffn_dim]
	fc2     *Linear[B] // [ffn_dim -> d_model]
	dropout *Dropout[B]
	norm    *LayerNorm[B]
}

// NewFeedForward creates a FeedForward block expanding dModel to ffnDim
// and back.
func NewFeedForward[B tensor.Backend](dModel, ffnDim int, dropoutP float32, backend B) *FeedForward[B] {
	if dModel <= 0 || ffnDim <= 0 {
		panic(fmt.Sprintf("FeedForward: dims must be positive, got dModel=%d ffnDim=%d", dModel, ffnDim))
	}
	return &FeedForward[B]{
		dModel:  dModel,
		fc1:     NewLinear(dModel, ffnDim, backend),
		fc2:     NewLinear(ffnDim, dModel, backend),
		dropout: NewDropout[B](dropoutP),
		norm:    NewLayerNorm(dModel, backend),
	}
}

// Forward applies the block to [batch, seq, d_model] input.
func (f *FeedForward[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	hidden := f.dropout.Forward(f.fc1.Forward(input)).Relu()
	output := f.fc2.Forward(hidden)
	return f.norm.Forward(output.Add(input))
}

// SetTraining toggles dropout.
func (f *FeedForward[B]) SetTraining(training bool) {
	f.dropout.SetTraining(training)
}

// Parameters returns the two Linear layers' and LayerNorm's parameters.
func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, f.fc1.Parameters()...)
	params = append(params, f.fc2.Parameters()...)
	params = append(params, f.norm.Parameters()...)
	return params
}
