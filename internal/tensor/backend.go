package tensor

// Backend defines the interface compute backends must implement.
//
// The neural-network layers never touch tensor memory layout directly;
// everything flows through these operations, so a backend swap (CPU,
// GPU, an autodiff decorator) changes execution without touching model
// code. Gradient computation is deliberately NOT part of this interface:
// weft's forward graph is pure, and training engines that produce
// gradients plug in above this layer.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies two 2-D matrices: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3-D/4-D
	// tensors with identical leading dimensions:
	// [..., M, K] @ [..., K, N] -> [..., M, N].
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(t *RawTensor, dim int) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	AddScalar(x *RawTensor, scalar float32) *RawTensor

	// Element-wise math.
	Rsqrt(x *RawTensor) *RawTensor
	Relu(x *RawTensor) *RawTensor

	// Softmax along a dimension (negative dims count from the end).
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reductions.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Boolean operations on bool tensors.
	Or(a, b *RawTensor) *RawTensor

	// MaskedFill overwrites x where mask is true with value. The mask
	// broadcasts (right-aligned) to x's shape, so a [batch, 1, q, k]
	// mask covers every attention head without being materialized per
	// head.
	MaskedFill(x, mask *RawTensor, value float32) *RawTensor

	// Embedding gathers rows of weight [vocab, dim] by indices,
	// producing a tensor of shape indices.Shape() + [dim].
	// Out-of-range indices panic.
	Embedding(weight, indices *RawTensor) *RawTensor

	// Name identifies the backend.
	Name() string
}
