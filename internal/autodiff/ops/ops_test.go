package ops_test

import (
	"math"
	"testing"

	"github.com/born-ml/scalargrad/internal/autodiff/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOperations_Forward checks every operation against the plain float64 result.
func TestOperations_Forward(t *testing.T) {
	tests := []struct {
		name string
		op   ops.Operation
		in   []float64
		want float64
	}{
		{"add", ops.Add, []float64{2, 3}, 5},
		{"sub", ops.Sub, []float64{2, 3}, -1},
		{"mul", ops.Mul, []float64{2, 3}, 6},
		{"div", ops.Div, []float64{3, 4}, 0.75},
		{"pow", ops.Pow, []float64{2, 4}, 16},
		{"pow fractional", ops.Pow, []float64{9, 0.5}, 3},
		{"neg", ops.Neg, []float64{2.5}, -2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.in, tt.op.Arity())
			assert.InDelta(t, tt.want, tt.op.Forward(tt.in), 1e-12)
		})
	}
}

// TestOperations_Local checks the closed-form local derivatives.
func TestOperations_Local(t *testing.T) {
	tests := []struct {
		name string
		op   ops.Operation
		in   []float64
		want []float64
	}{
		{"add", ops.Add, []float64{2, 3}, []float64{1, 1}},
		{"sub", ops.Sub, []float64{2, 3}, []float64{1, -1}},
		{"mul", ops.Mul, []float64{2, 3}, []float64{3, 2}},
		{"div", ops.Div, []float64{3, 4}, []float64{0.25, -3.0 / 16}},
		{"pow", ops.Pow, []float64{2, 4}, []float64{32, math.Log(2) * 16}},
		{"neg", ops.Neg, []float64{7}, []float64{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op.Local(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12, "operand %d", i)
			}
		})
	}
}

// TestOperations_LocalMatchesFiniteDifferences perturbs one operand at a time.
func TestOperations_LocalMatchesFiniteDifferences(t *testing.T) {
	const eps = 1e-6

	points := map[ops.Operation][][]float64{
		ops.Add: {{1, 2}, {-3.5, 0.25}},
		ops.Sub: {{1, 2}, {-3.5, 0.25}},
		ops.Mul: {{1, 2}, {-3.5, 0.25}},
		ops.Div: {{1, 2}, {-3.5, 0.25}},
		ops.Pow: {{2, 3}, {0.5, -1.5}, {3, 0.2}},
		ops.Neg: {{4}, {-0.1}},
	}

	for op, inputs := range points {
		for _, in := range inputs {
			local := op.Local(in)
			for i := range in {
				plus := append([]float64(nil), in...)
				minus := append([]float64(nil), in...)
				plus[i] += eps
				minus[i] -= eps
				numeric := (op.Forward(plus) - op.Forward(minus)) / (2 * eps)
				assert.InDelta(t, numeric, local[i], 1e-4, "%s at %v, operand %d", op.Kind(), in, i)
			}
		}
	}
}

// TestPowOp_DomainErrorsAreNumeric checks that a non-positive base yields NaN instead of panicking.
func TestPowOp_DomainErrorsAreNumeric(t *testing.T) {
	local := ops.Pow.Local([]float64{-2, 2})
	assert.InDelta(t, -4.0, local[0], 1e-12)
	assert.True(t, math.IsNaN(local[1]), "d/db of (-2)^b should be NaN")

	local = ops.Pow.Local([]float64{0, 2})
	assert.True(t, math.IsNaN(local[1]), "ln(0)*0 should be NaN")
}

// TestDivOp_ByZero checks IEEE semantics for division by zero.
func TestDivOp_ByZero(t *testing.T) {
	assert.True(t, math.IsInf(ops.Div.Forward([]float64{1, 0}), 1))
	assert.True(t, math.IsNaN(ops.Div.Forward([]float64{0, 0})))
	local := ops.Div.Local([]float64{1, 0})
	assert.True(t, math.IsInf(local[0], 1))
	assert.True(t, math.IsInf(local[1], -1))
}

func TestKind(t *testing.T) {
	for k := ops.KindAdd; k <= ops.KindNeg; k++ {
		op := ops.ForKind(k)
		require.NotNil(t, op, "kind %d", k)
		assert.Equal(t, k, op.Kind())
	}
	assert.Nil(t, ops.ForKind(ops.KindNone))
	assert.Equal(t, "pow", ops.KindPow.String())
	assert.Equal(t, "none", ops.KindNone.String())
	assert.Equal(t, "unknown", ops.Kind(200).String())
	assert.Equal(t, 1, ops.Neg.Arity())
	assert.Equal(t, "^", ops.Pow.Symbol())
}
