// Copyright 2026 Weft ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes the transformer's neural network layers.
package nn

import (
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/tensor"
)

// Module is the common interface for single-input network components.
type Module[B tensor.Backend] = nn.Module[B]

// ParameterSource is anything that exposes trainable parameters.
type ParameterSource[B tensor.Backend] = nn.ParameterSource[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier-initialized weights and
// a zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearNoBias creates a linear layer without a bias vector.
func NewLinearNoBias[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinearNoBias(inFeatures, outFeatures, backend)
}

// Embedding maps token IDs to dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding layer with N(0, 1) initialization.
func NewEmbedding[B tensor.Backend](numEmbeddings, dim int, backend B) *Embedding[B] {
	return nn.NewEmbedding[B](numEmbeddings, dim, backend)
}

// LayerNorm normalizes the last dimension with a learned affine
// transform.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a LayerNorm over the last dimension of size dim.
func NewLayerNorm[B tensor.Backend](dim int, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(dim, backend)
}

// Dropout randomly zeroes elements during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with drop probability p.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	return nn.NewDropout[B](p)
}

// PositionalEncoding adds fixed sinusoidal position information.
type PositionalEncoding[B tensor.Backend] = nn.PositionalEncoding[B]

// NewPositionalEncoding precomputes the sinusoid table.
func NewPositionalEncoding[B tensor.Backend](dim int, dropout float32, maxLen int, backend B) *PositionalEncoding[B] {
	return nn.NewPositionalEncoding(dim, dropout, maxLen, backend)
}

// Attention

// ScaledDotProductAttention computes softmax(QK^T / sqrt(d_k)) V over
// [batch, heads, seq, d_k] tensors, returning the attended values and
// the attention weights.
func ScaledDotProductAttention[B tensor.Backend](
	q, k, v *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
	drop *Dropout[B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(q, k, v, mask, drop)
}

// MultiHeadAttention implements multi-head attention with residual and
// layer normalization.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention layer.
func NewMultiHeadAttention[B tensor.Backend](embedDim, numHeads int, dropout float32, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention(embedDim, numHeads, dropout, backend)
}

// FeedForward is the position-wise feed-forward block.
type FeedForward[B tensor.Backend] = nn.FeedForward[B]

// NewFeedForward creates a feed-forward block.
func NewFeedForward[B tensor.Backend](dModel, ffnDim int, dropout float32, backend B) *FeedForward[B] {
	return nn.NewFeedForward(dModel, ffnDim, dropout, backend)
}

// Masks

// PadMask builds a [batch, len_q, len_k] mask blocking padded keys.
func PadMask[B tensor.Backend](queries, keys *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	return nn.PadMask(queries, keys, padID)
}

// SubsequentMask builds a [batch, seq, seq] causal mask.
func SubsequentMask[B tensor.Backend](batch, seqLen int, backend B) *tensor.Tensor[bool, B] {
	return nn.SubsequentMask(batch, seqLen, backend)
}

// Model

// Config holds the transformer hyperparameters.
type Config = nn.Config

// EncoderLayer is one encoder block.
type EncoderLayer[B tensor.Backend] = nn.EncoderLayer[B]

// DecoderLayer is one decoder block.
type DecoderLayer[B tensor.Backend] = nn.DecoderLayer[B]

// Encoder is the embedding, positional encoding and encoder stack.
type Encoder[B tensor.Backend] = nn.Encoder[B]

// Decoder is the embedding, positional encoding and decoder stack.
type Decoder[B tensor.Backend] = nn.Decoder[B]

// Transformer is the full encoder-decoder sequence-to-sequence model.
type Transformer[B tensor.Backend] = nn.Transformer[B]

// NewTransformer builds a transformer from the config.
func NewTransformer[B tensor.Backend](config Config, backend B) (*Transformer[B], error) {
	return nn.NewTransformer[B](config, backend)
}

// Initialization

// Xavier draws weights from the Glorot uniform distribution.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
