package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Default hyperparameters applied by Config.withDefaults.
const (
	DefaultMaxLen = 5000
	DefaultFFNMul = 4
)

// Config holds the transformer hyperparameters.
//
// Zero values for MaxLen and FFNDim are replaced with defaults (5000
// positions, 4*DModel); everything else must be set explicitly.
type Config struct {
	VocabEncSize int     // source vocabulary size
	VocabDecSize int     // target vocabulary size
	DModel       int     // model/embedding dimension
	NumHeads     int     // attention heads, must divide DModel
	NumLayers    int     // encoder and decoder depth
	FFNDim       int     // feed-forward inner dimension (0 = 4*DModel)
	Dropout      float32 // dropout probability in [0, 1)
	MaxLen       int     // positional encoding table length (0 = 5000)
	PadID        int32   // padding token ID used to build masks
}

func (c Config) withDefaults() Config {
	if c.MaxLen == 0 {
		c.MaxLen = DefaultMaxLen
	}
	if c.FFNDim == 0 {
		c.FFNDim = DefaultFFNMul * c.DModel
	}
	return c
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	switch {
	case c.VocabEncSize <= 0:
		return fmt.Errorf("vocab_enc_size must be positive, got %d", c.VocabEncSize)
	case c.VocabDecSize <= 0:
		return fmt.Errorf("vocab_dec_size must be positive, got %d", c.VocabDecSize)
	case c.DModel <= 0:
		return fmt.Errorf("d_model must be positive, got %d", c.DModel)
	case c.NumHeads <= 0:
		return fmt.Errorf("num_heads must be positive, got %d", c.NumHeads)
	case c.DModel%c.NumHeads != 0:
		return fmt.Errorf("d_model %d not divisible by num_heads %d", c.DModel, c.NumHeads)
	case c.NumLayers <= 0:
		return fmt.Errorf("num_layers must be positive, got %d", c.NumLayers)
	case c.FFNDim < 0:
		return fmt.Errorf("ffn_dim must not be negative, got %d", c.FFNDim)
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	case c.MaxLen < 0:
		return fmt.Errorf("max_len must not be negative, got %d", c.MaxLen)
	case c.PadID < 0:
		return fmt.Errorf("pad_id must not be negative, got %d", c.PadID)
	}
	return nil
}

// Transformer is the full encoder-decoder sequence-to-sequence model.
//
// Forward runs source tokens through the encoder, decodes target tokens
// against the encoder output and projects the decoder states onto the
// target vocabulary.
type Transformer[B tensor.Backend] struct {
	config     Config
	encoder    *Encoder[B]
	decoder    *Decoder[B]
	projection *Linear[B] // d_model -> vocab_dec
	backend    B
}

// NewTransformer builds a transformer from the config.
func NewTransformer[B tensor.Backend](config Config, backend B) (*Transformer[B], error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transformer config: %w", err)
	}

	return &Transformer[B]{
		config: config,
		encoder: NewEncoder[B](config.VocabEncSize, config.DModel, config.NumHeads,
			config.NumLayers, config.FFNDim, config.Dropout, config.MaxLen, config.PadID, backend),
		decoder: NewDecoder[B](config.VocabDecSize, config.DModel, config.NumHeads,
			config.NumLayers, config.FFNDim, config.Dropout, config.MaxLen, config.PadID, backend),
		projection: NewLinear(config.DModel, config.VocabDecSize, backend),
		backend:    backend,
	}, nil
}

// Forward computes target-vocabulary logits for a source/target batch.
//
// src: [batch, src_len] int32 token IDs
// tgt: [batch, tgt_len] int32 token IDs
//
// Returns logits flattened to [batch*tgt_len, vocab_dec], matching the
// layout cross-entropy losses expect.
func (t *Transformer[B]) Forward(src, tgt *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	srcShape, tgtShape := src.Shape(), tgt.Shape()
	if len(srcShape) != 2 || len(tgtShape) != 2 {
		panic(fmt.Sprintf("Transformer.Forward: expected 2D [batch, seq] inputs, got %v and %v", srcShape, tgtShape))
	}
	if srcShape[0] != tgtShape[0] {
		panic(fmt.Sprintf("Transformer.Forward: batch mismatch: src %d vs tgt %d", srcShape[0], tgtShape[0]))
	}

	encOutput := t.encoder.Forward(src)
	decOutput := t.decoder.Forward(src, tgt, encOutput)

	logits := t.projection.Forward(decOutput) // [batch, tgt_len, vocab_dec]
	return logits.Reshape(tgtShape[0]*tgtShape[1], t.config.VocabDecSize)
}

// Encode exposes the encoder alone, for inference loops that encode
// the source once and decode incrementally.
func (t *Transformer[B]) Encode(src *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return t.encoder.Forward(src)
}

// Decode runs the decoder and projection against a precomputed encoder
// output. Returns [batch*tgt_len, vocab_dec] logits.
func (t *Transformer[B]) Decode(src, tgt *tensor.Tensor[int32, B], encOutput *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	tgtShape := tgt.Shape()
	decOutput := t.decoder.Forward(src, tgt, encOutput)
	logits := t.projection.Forward(decOutput)
	return logits.Reshape(tgtShape[0]*tgtShape[1], t.config.VocabDecSize)
}

// SetTraining toggles dropout across the whole model.
func (t *Transformer[B]) SetTraining(training bool) {
	t.encoder.SetTraining(training)
	t.decoder.SetTraining(training)
}

// Parameters returns every trainable parameter: encoder, decoder and
// the output projection, in registration order.
func (t *Transformer[B]) Parameters() []*Parameter[B] {
	params := t.encoder.Parameters()
	params = append(params, t.decoder.Parameters()...)
	params = append(params, t.projection.Parameters()...)
	return params
}

// Config returns the resolved configuration (defaults applied).
func (t *Transformer[B]) Config() Config {
	return t.config
}
