package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// DecoderLayer is one decoder block: masked self-attention over the
// target sequence, cross-attention from the decoder state onto the
// encoder output, then the feed-forward block.
//
// Cross-attention uses the decoder state as queries and the encoder
// output as keys and values, so its residual follows the decoder path.
type DecoderLayer[B tensor.Backend] struct {
	selfAttn    *MultiHeadAttention[B]
	crossAttn   *MultiHeadAttention[B]
	feedForward *FeedForward[B]
}

// NewDecoderLayer creates a decoder block.
func NewDecoderLayer[B tensor.Backend](dModel, numHeads, ffnDim int, dropoutP float32, backend B) *DecoderLayer[B] {
	return &DecoderLayer[B]{
		selfAttn:    NewMultiHeadAttention(dModel, numHeads, dropoutP, backend),
		crossAttn:   NewMultiHeadAttention(dModel, numHeads, dropoutP, backend),
		feedForward: NewFeedForward(dModel, ffnDim, dropoutP, backend),
	}
}

// Forward runs the block.
//
// input:     [batch, tgt_len, d_model] decoder state
// encOutput: [batch, src_len, d_model] encoder output
// selfMask:  [batch, tgt_len, tgt_len] pad+causal mask
// crossMask: [batch, tgt_len, src_len] pad mask over source keys
func (l *DecoderLayer[B]) Forward(
	input, encOutput *tensor.Tensor[float32, B],
	selfMask, crossMask *tensor.Tensor[bool, B],
) *tensor.Tensor[float32, B] {
	output := l.selfAttn.Forward(input, input, input, selfMask)
	output = l.crossAttn.Forward(output, encOutput, encOutput, crossMask)
	return l.feedForward.Forward(output)
}

// SetTraining toggles dropout in the sublayers.
func (l *DecoderLayer[B]) SetTraining(training bool) {
	l.selfAttn.SetTraining(training)
	l.crossAttn.SetTraining(training)
	l.feedForward.SetTraining(training)
}

// Parameters returns the sublayers' parameters.
func (l *DecoderLayer[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, l.selfAttn.Parameters()...)
	params = append(params, l.crossAttn.Parameters()...)
	params = append(params, l.feedForward.Parameters()...)
	return params
}

// Decoder embeds the target tokens, adds positional encodings, builds
// the self- and cross-attention masks and runs the stack of decoder
// layers.
type Decoder[B tensor.Backend] struct {
	embedding *Embedding[B]
	posEnc    *PositionalEncoding[B]
	layers    []*DecoderLayer[B]
	padID     int32
}

// NewDecoder creates a decoder stack of numLayers blocks over a target
// vocabulary of vocabSize tokens.
func NewDecoder[B tensor.Backend](vocabSize, dModel, numHeads, numLayers, ffnDim int, dropoutP float32, maxLen int, padID int32, backend B) *Decoder[B] {
	layers := make([]*DecoderLayer[B], numLayers)
	for i := range layers {
		layers[i] = NewDecoderLayer(dModel, numHeads, ffnDim, dropoutP, backend)
	}
	return &Decoder[B]{
		embedding: NewEmbedding[B](vocabSize, dModel, backend),
		posEnc:    NewPositionalEncoding(dModel, dropoutP, maxLen, backend),
		layers:    layers,
		padID:     padID,
	}
}

// Forward decodes [batch, tgt_len] target token IDs against the
// encoder output, producing [batch, tgt_len, d_model].
//
// The self-attention mask is the union of the target pad mask and the
// causal mask, so a position sees neither padding nor the future. The
// cross-attention mask blocks padded source positions only.
func (d *Decoder[B]) Forward(
	src, tgt *tensor.Tensor[int32, B],
	encOutput *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	output := d.posEnc.Forward(d.embedding.Forward(tgt))

	tgtShape := tgt.Shape()
	selfMask := PadMask(tgt, tgt, d.padID).Or(SubsequentMask(tgtShape[0], tgtShape[1], tgt.Backend()))
	crossMask := PadMask(tgt, src, d.padID)

	for _, layer := range d.layers {
		output = layer.Forward(output, encOutput, selfMask, crossMask)
	}
	return output
}

// SetTraining toggles dropout throughout the stack.
func (d *Decoder[B]) SetTraining(training bool) {
	d.posEnc.SetTraining(training)
	for _, layer := range d.layers {
		layer.SetTraining(training)
	}
}

// Parameters returns the embedding and every layer's parameters.
func (d *Decoder[B]) Parameters() []*Parameter[B] {
	params := d.embedding.Parameters()
	for _, layer := range d.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}
