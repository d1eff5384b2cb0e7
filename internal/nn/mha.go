package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// MultiHeadAttention implements multi-head attention with a residual
// connection and layer normalization:
//
//	heads  = split(Wq q, Wk k, Wv v)
//	ctx    = concat(SDPA(heads))
//	output = LayerNorm(Wo ctx + q)
//
// All four projections are bias-free and Xavier-initialized. The
// residual always comes from the query operand, which in
// cross-attention is the decoder state. The LayerNorm is owned by the
// layer and persists across calls, so its scale and shift are
// trainable.
type MultiHeadAttention[B tensor.Backend] struct {
	embedDim int
	numHeads int
	headDim  int

	wq *Linear[B]
	wk *Linear[B]
	wv *Linear[B]
	wo *Linear[B]

	norm    *LayerNorm[B]
	dropout *Dropout[B]

	backend B
}

// NewMultiHeadAttention creates a MultiHeadAttention layer.
// embedDim must be divisible by numHeads.
func NewMultiHeadAttention[B tensor.Backend](embedDim, numHeads int, dropoutP float32, backend B) *MultiHeadAttention[B] {
	if numHeads <= 0 {
		panic(fmt.Sprintf("MultiHeadAttention: numHeads must be positive, got %d", numHeads))
	}
	if embedDim%numHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embedDim %d not divisible by numHeads %d", embedDim, numHeads))
	}

	return &MultiHeadAttention[B]{
		embedDim: embedDim,
		numHeads: numHeads,
		headDim:  embedDim / numHeads,
		wq:       NewLinearNoBias(embedDim, embedDim, backend),
		wk:       NewLinearNoBias(embedDim, embedDim, backend),
		wv:       NewLinearNoBias(embedDim, embedDim, backend),
		wo:       NewLinearNoBias(embedDim, embedDim, backend),
		norm:     NewLayerNorm(embedDim, backend),
		dropout:  NewDropout[B](dropoutP),
		backend:  backend,
	}
}

// Forward computes attention of query over key/value.
//
// query: [batch, len_q, embed_dim]
// key:   [batch, len_k, embed_dim]
// value: [batch, len_k, embed_dim]
// mask:  optional [batch, len_q, len_k] bool mask, true = blocked. The
// mask is lifted to [batch, 1, len_q, len_k] and broadcast over heads.
//
// Returns [batch, len_q, embed_dim].
func (m *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
) *tensor.Tensor[float32, B] {
	qShape := query.Shape()
	if len(qShape) != 3 || qShape[2] != m.embedDim {
		panic(fmt.Sprintf("MultiHeadAttention.Forward: expected query [batch, seq, %d], got %v", m.embedDim, qShape))
	}
	batch, lenQ := qShape[0], qShape[1]
	lenK := key.Shape()[1]

	// Project and split: [b, seq, d] -> [b, heads, seq, d_k]
	q := m.splitHeads(m.wq.Forward(query), batch, lenQ)
	k := m.splitHeads(m.wk.Forward(key), batch, lenK)
	v := m.splitHeads(m.wv.Forward(value), batch, lenK)

	var mask4 *tensor.Tensor[bool, B]
	if mask != nil {
		mask4 = mask.Unsqueeze(1) // [b, 1, len_q, len_k]
	}

	ctx, _ := ScaledDotProductAttention(q, k, v, mask4, m.dropout)

	// Merge heads: [b, heads, len_q, d_k] -> [b, len_q, d]
	merged := ctx.Transpose(0, 2, 1, 3).Reshape(batch, lenQ, m.embedDim)

	output := m.wo.Forward(merged)
	return m.norm.Forward(output.Add(query))
}

func (m *MultiHeadAttention[B]) splitHeads(x *tensor.Tensor[float32, B], batch, seqLen int) *tensor.Tensor[float32, B] {
	return x.Reshape(batch, seqLen, m.numHeads, m.headDim).Transpose(0, 2, 1, 3)
}

// SetTraining toggles attention-weight dropout.
func (m *MultiHeadAttention[B]) SetTraining(training bool) {
	m.dropout.SetTraining(training)
}

// Parameters returns the projection weights and LayerNorm parameters.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, m.wq.Parameters()...)
	params = append(params, m.wk.Parameters()...)
	params = append(params, m.wv.Parameters()...)
	params = append(params, m.wo.Parameters()...)
	params = append(params, m.norm.Parameters()...)
	return params
}

// NumHeads returns the head count.
func (m *MultiHeadAttention[B]) NumHeads() int {
	return m.numHeads
}

// HeadDim returns the per-head dimension.
func (m *MultiHeadAttention[B]) HeadDim() int {
	return m.headDim
}
