package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// PadMask builds a boolean attention mask marking padding keys.
//
// queries: [batch, len_q] token IDs (only its length is used)
// keys:    [batch, len_k] token IDs
//
// Returns [batch, len_q, len_k] where mask[b, i, j] is true iff
// keys[b, j] == padID, i.e. every query is blocked from attending to
// padded key positions. True means "masked out".
func PadMask[B tensor.Backend](queries, keys *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	qShape, kShape := queries.Shape(), keys.Shape()
	if len(qShape) != 2 || len(kShape) != 2 {
		panic(fmt.Sprintf("PadMask: expected 2D [batch, seq] inputs, got %v and %v", qShape, kShape))
	}
	if qShape[0] != kShape[0] {
		panic(fmt.Sprintf("PadMask: batch mismatch: %d vs %d", qShape[0], kShape[0]))
	}
	batch, lenQ, lenK := qShape[0], qShape[1], kShape[1]

	mask := tensor.Zeros[bool](tensor.Shape{batch, lenQ, lenK}, queries.Backend())
	maskData := mask.Data()
	keyData := keys.Data()
	for b := 0; b < batch; b++ {
		for j := 0; j < lenK; j++ {
			if keyData[b*lenK+j] != padID {
				continue
			}
			for i := 0; i < lenQ; i++ {
				maskData[(b*lenQ+i)*lenK+j] = true
			}
		}
	}
	return mask
}

// SubsequentMask builds the causal mask for decoder self-attention:
// [batch, seq, seq] with true strictly above the diagonal, so position
// i cannot attend to positions j > i. True means "masked out".
func SubsequentMask[B tensor.Backend](batch, seqLen int, backend B) *tensor.Tensor[bool, B] {
	if batch <= 0 || seqLen <= 0 {
		panic(fmt.Sprintf("SubsequentMask: sizes must be positive, got batch=%d seq=%d", batch, seqLen))
	}
	mask := tensor.Zeros[bool](tensor.Shape{batch, seqLen, seqLen}, backend)
	data := mask.Data()
	for b := 0; b < batch; b++ {
		for i := 0; i < seqLen; i++ {
			for j := i + 1; j < seqLen; j++ {
				data[(b*seqLen+i)*seqLen+j] = true
			}
		}
	}
	return mask
}
