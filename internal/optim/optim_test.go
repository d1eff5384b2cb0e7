package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/optim"
	"github.com/weft-ml/weft/internal/tensor"
)

func newParam(t *testing.T, backend *cpu.Backend, values ...float32) *nn.Parameter[*cpu.Backend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	require.NoError(t, err)
	return nn.NewParameter("x", x)
}

func newGrad(t *testing.T, values ...float32) *tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{len(values)}, tensor.Float32)
	require.NoError(t, err)
	copy(grad.AsFloat32(), values)
	return grad
}

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param}, optim.SGDConfig{LR: 0.1})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, 1.0),
	}
	optimizer.Step(grads)

	// x = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
}

func TestSGD_WithMomentum(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, 1.0),
	}

	// Step 1: v = 1.0, x = 1.0 - 0.1 = 0.9
	optimizer.Step(grads)
	assert.InDelta(t, 0.9, param.Tensor().Data()[0], 1e-6)

	// Step 2: v = 0.9*1.0 + 1.0 = 1.9, x = 0.9 - 0.19 = 0.71
	optimizer.Step(grads)
	assert.InDelta(t, 0.71, param.Tensor().Data()[0], 1e-6)
}

func TestSGD_SkipsParamsWithoutGrad(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 3.0)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param}, optim.SGDConfig{LR: 0.1})
	optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	assert.Equal(t, float32(3.0), param.Tensor().Data()[0])
}

func TestAdam_FirstStep(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.Backend]{param},
		optim.AdamConfig{LR: 0.001})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, 0.5),
	}
	optimizer.Step(grads)

	// After bias correction the first step moves by ~lr regardless of
	// gradient magnitude: m_hat = g, v_hat = g^2, update ≈ lr * sign(g).
	got := param.Tensor().Data()[0]
	assert.InDelta(t, 1.0-0.001, got, 1e-5)
}

func TestAdam_ConvergesOnQuadratic(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 5.0)

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.Backend]{param},
		optim.AdamConfig{LR: 0.1})

	// Minimize f(x) = x^2 with analytic gradient 2x.
	for i := 0; i < 500; i++ {
		x := param.Tensor().Data()[0]
		grads := map[*tensor.RawTensor]*tensor.RawTensor{
			param.Tensor().Raw(): newGrad(t, 2*x),
		}
		optimizer.Step(grads)
	}

	assert.Less(t, math.Abs(float64(param.Tensor().Data()[0])), 0.1,
		"Adam failed to approach the minimum of x^2")
}

func TestOptimizer_ZeroGrad(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)
	gradTensor, err := tensor.FromSlice([]float32{0.5}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	param.SetGrad(gradTensor)

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param}, optim.SGDConfig{})
	optimizer.ZeroGrad()

	assert.Nil(t, param.Grad())
}

func TestOptimizer_LR(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	sgd := optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param}, optim.SGDConfig{})
	assert.Equal(t, float32(0.01), sgd.GetLR(), "SGD default LR")
	sgd.SetLR(0.5)
	assert.Equal(t, float32(0.5), sgd.GetLR())

	adam := optim.NewAdam([]*nn.Parameter[*cpu.Backend]{param}, optim.AdamConfig{})
	assert.Equal(t, float32(0.001), adam.GetLR(), "Adam default LR")
}

func TestOptimizer_InterfaceCompliance(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, 1.0)

	var _ optim.Optimizer = optim.NewSGD([]*nn.Parameter[*cpu.Backend]{param}, optim.SGDConfig{})
	var _ optim.Optimizer = optim.NewAdam([]*nn.Parameter[*cpu.Backend]{param}, optim.AdamConfig{})
}
