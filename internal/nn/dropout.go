package nn

import (
	"fmt"
	"math/rand"

	"github.com/weft-ml/weft/internal/tensor"
)

// Dropout randomly zeroes elements during training with probability p,
// scaling the survivors by 1/(1-p) so activation magnitudes match
// inference (inverted dropout). Outside training mode it is the
// identity.
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout creates a Dropout layer with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: p must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p}
}

// SetTraining switches between training (dropout active) and inference
// (identity) behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether dropout is active.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// Forward applies dropout to the input.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	out := input.Clone()
	data := out.Data()
	scale := 1.0 / (1.0 - d.p)
	for i := range data {
		//nolint:gosec // math/rand is fine for dropout masks
		if rand.Float32() < d.p {
			data[i] = 0
		} else {
			data[i] *= scale
		}
	}
	return out
}

// Parameters returns an empty slice; dropout has no trainable state.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
