// Package nn implements the neural network layers of the weft
// sequence-to-sequence transformer:
//   - Parameter: trainable tensors with gradient slots
//   - Linear, Embedding, LayerNorm, Dropout: basic layers
//   - PositionalEncoding: fixed sinusoidal position information
//   - ScaledDotProductAttention, MultiHeadAttention: attention
//   - FeedForward, EncoderLayer, DecoderLayer, Encoder, Decoder
//   - Transformer: the full encoder-decoder model
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// Module is the base interface for single-input network components.
//
// Attention and the encoder/decoder stacks take masks and multiple
// operands, so they expose their own Forward signatures; they still
// satisfy the Parameters contract through ParameterSource.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without trainable
	// state return an empty slice.
	Parameters() []*Parameter[B]
}

// ParameterSource is anything that exposes trainable parameters.
// Optimizers consume this interface rather than concrete layer types.
type ParameterSource[B tensor.Backend] interface {
	Parameters() []*Parameter[B]
}
