package nn

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// maskFillValue is added to masked attention scores before softmax.
// Large negative rather than -Inf so rows that are fully masked still
// produce finite weights.
const maskFillValue = -1e9

// ScaledDotProductAttention computes softmax(QK^T / sqrt(d_k)) V.
//
// q, k, v: [batch, heads, seq, d_k] (k and v share their seq length,
// which may differ from q's in cross-attention).
// mask: optional bool tensor broadcasting to [batch, heads, len_q,
// len_k]; true positions are excluded. A [batch, 1, len_q, len_k] mask
// covers every head through broadcasting.
// drop: optional dropout applied to the attention weights.
//
// Returns the attended values [batch, heads, len_q, d_k] and the
// attention weights [batch, heads, len_q, len_k].
func ScaledDotProductAttention[B tensor.Backend](
	q, k, v *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
	drop *Dropout[B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	qShape, kShape, vShape := q.Shape(), k.Shape(), v.Shape()
	if len(qShape) != 4 || len(kShape) != 4 || len(vShape) != 4 {
		panic(fmt.Sprintf("ScaledDotProductAttention: expected 4D [batch, heads, seq, d_k] inputs, got %v, %v, %v",
			qShape, kShape, vShape))
	}
	if qShape[3] != kShape[3] {
		panic(fmt.Sprintf("ScaledDotProductAttention: q/k head dim mismatch: %d vs %d", qShape[3], kShape[3]))
	}
	if kShape[2] != vShape[2] {
		panic(fmt.Sprintf("ScaledDotProductAttention: k/v seq length mismatch: %d vs %d", kShape[2], vShape[2]))
	}

	dk := qShape[3]
	scale := float32(1.0 / math.Sqrt(float64(dk)))

	// [b, h, len_q, d_k] @ [b, h, d_k, len_k] = [b, h, len_q, len_k]
	scores := q.BatchMatMul(k.Transpose(0, 1, 3, 2)).MulScalar(scale)

	if mask != nil {
		scores = scores.MaskedFill(mask, maskFillValue)
	}

	weights := scores.Softmax(-1)
	if drop != nil {
		weights = drop.Forward(weights)
	}

	// [b, h, len_q, len_k] @ [b, h, len_k, d_k] = [b, h, len_q, d_k]
	return weights.BatchMatMul(v), weights
}
