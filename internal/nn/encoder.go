package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// EncoderLayer is one encoder block: self-attention over the source
// sequence followed by the feed-forward block. Residuals and layer
// norms live inside the sublayers.
type EncoderLayer[B tensor.Backend] struct {
	selfAttn    *MultiHeadAttention[B]
	feedForward *FeedForward[B]
}

// NewEncoderLayer creates an encoder block.
func NewEncoderLayer[B tensor.Backend](dModel, numHeads, ffnDim int, dropoutP float32, backend B) *EncoderLayer[B] {
	return &EncoderLayer[B]{
		selfAttn:    NewMultiHeadAttention(dModel, numHeads, dropoutP, backend),
		feedForward: NewFeedForward(dModel, ffnDim, dropoutP, backend),
	}
}

// Forward runs the block on [batch, src_len, d_model] input with a
// [batch, src_len, src_len] pad mask.
func (l *EncoderLayer[B]) Forward(input *tensor.Tensor[float32, B], mask *tensor.Tensor[bool, B]) *tensor.Tensor[float32, B] {
	output := l.selfAttn.Forward(input, input, input, mask)
	return l.feedForward.Forward(output)
}

// SetTraining toggles dropout in the sublayers.
func (l *EncoderLayer[B]) SetTraining(training bool) {
	l.selfAttn.SetTraining(training)
	l.feedForward.SetTraining(training)
}

// Parameters returns the sublayers' parameters.
func (l *EncoderLayer[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, l.selfAttn.Parameters()...)
	params = append(params, l.feedForward.Parameters()...)
	return params
}

// Encoder embeds the source tokens, adds positional encodings and runs
// the stack of encoder layers. The pad mask is derived from the token
// IDs once and shared by every layer.
type Encoder[B tensor.Backend] struct {
	embedding *Embedding[B]
	posEnc    *PositionalEncoding[B]
	layers    []*EncoderLayer[B]
	padID     int32
}

// NewEncoder creates an encoder stack of numLayers blocks over a
// source vocabulary of vocabSize tokens.
func NewEncoder[B tensor.Backend](vocabSize, dModel, numHeads, numLayers, ffnDim int, dropoutP float32, maxLen int, padID int32, backend B) *Encoder[B] {
	layers := make([]*EncoderLayer[B], numLayers)
	for i := range layers {
		layers[i] = NewEncoderLayer(dModel, numHeads, ffnDim, dropoutP, backend)
	}
	return &Encoder[B]{
		embedding: NewEmbedding[B](vocabSize, dModel, backend),
		posEnc:    NewPositionalEncoding(dModel, dropoutP, maxLen, backend),
		layers:    layers,
		padID:     padID,
	}
}

// Forward encodes [batch, src_len] int32 token IDs into
// [batch, src_len, d_model] representations.
func (e *Encoder[B]) Forward(src *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	output := e.posEnc.Forward(e.embedding.Forward(src))

	mask := PadMask(src, src, e.padID)
	for _, layer := range e.layers {
		output = layer.Forward(output, mask)
	}
	return output
}

// SetTraining toggles dropout throughout the stack.
func (e *Encoder[B]) SetTraining(training bool) {
	e.posEnc.SetTraining(training)
	for _, layer := range e.layers {
		layer.SetTraining(training)
	}
}

// Parameters returns the embedding and every layer's parameters.
func (e *Encoder[B]) Parameters() []*Parameter[B] {
	params := e.embedding.Parameters()
	for _, layer := range e.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}
