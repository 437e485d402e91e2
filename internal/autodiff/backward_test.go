package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackward_ChainRule(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	y := g.Leaf(3)
	z := x.Add(y).Mul(x)

	assert.Equal(t, 10.0, z.Value())
	assert.InDelta(t, 7.0, x.Grad(), 1e-12, "dz/dx = 2x + y")
	assert.InDelta(t, 2.0, y.Grad(), 1e-12, "dz/dy = x")
}

func TestBackward_PowerRule(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	y := g.Leaf(4)
	z := x.Pow(y)

	assert.Equal(t, 16.0, z.Value())
	assert.InDelta(t, 32.0, x.Grad(), 1e-12, "dz/dx = y*x^(y-1)")
	assert.InDelta(t, math.Log(2)*16, y.Grad(), 1e-12, "dz/dy = ln(x)*x^y")
	assert.InDelta(t, 11.09, y.Grad(), 1e-2)
}

func TestBackward_OutputGradientIsOne(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(1.5)
	y := g.Leaf(-2)

	outputs := []autodiff.Value{
		x.Add(y),
		x.Sub(y).Mul(x),
		x.Div(y).Pow(g.Const(3)),
		y.Neg(),
	}
	for _, out := range outputs {
		assert.Equal(t, 1.0, out.Grad(), "output %s", out)
	}
}

// TestBackward_SharedLeaf is the regression test for multi-parent accumulation.
func TestBackward_SharedLeaf(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(3)
	w := x.Mul(x).Add(x)

	assert.Equal(t, 12.0, w.Value())
	assert.InDelta(t, 7.0, x.Grad(), 1e-12, "dw/dx = 2x + 1")
}

// TestBackward_SharedIntermediate checks that a shared derived node has fully
// accumulated its gradient before propagating it further down.
func TestBackward_SharedIntermediate(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	a := x.Mul(x) // x²
	b := a.Add(a) // 2x²
	c := b.Mul(a) // 2x⁴

	assert.Equal(t, 32.0, c.Value())
	assert.InDelta(t, 16.0, a.Grad(), 1e-12, "dc/da = 4a")
	assert.InDelta(t, 64.0, x.Grad(), 1e-12, "dc/dx = 8x³")
}

// TestBackward_DiamondOfDepth builds many paths through the same nodes.
func TestBackward_DiamondOfDepth(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(1.1)
	v := x
	for i := 0; i < 10; i++ {
		v = v.Add(v) // doubles each step: v = 2^10 x
	}
	out := v.Mul(x) // 1024 x²

	assert.InDelta(t, 1024*1.1*1.1, out.Value(), 1e-9)
	assert.InDelta(t, 2048*1.1, x.Grad(), 1e-9)
}

func TestBackward_Negation(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	y := g.Leaf(4)
	z := y.Pow(x.Neg().Mul(g.Const(2))) // y^(-2x)

	assert.InDelta(t, 0.00390625, z.Value(), 1e-15)
	assert.InDelta(t, -0.00390625, y.Grad(), 1e-15, "dz/dy = -2x * y^(-2x-1)")
	assert.InDelta(t, -2*math.Log(4)*0.00390625, x.Grad(), 1e-15, "dz/dx = -2 ln(y) y^(-2x)")

	n := g.Leaf(5).Neg()
	assert.Equal(t, 1.0, n.Grad())
	assert.Equal(t, -1.0, n.Operands()[0].Grad())
}

func TestBackward_IsolatedLeaf(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(42)

	assert.Equal(t, 0.0, x.Grad())
	assert.Equal(t, 0.0, x.GradWRT(x))

	grad, err := g.Gradient(x.ID())
	require.NoError(t, err)
	assert.Equal(t, 0.0, grad)
}

func TestBackward_DisconnectedNode(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(1)
	y := g.Leaf(2)
	other := g.Leaf(7)
	z := x.Mul(y)
	unrelated := other.Add(g.Const(1))

	assert.Equal(t, 0.0, other.GradWRT(z))
	assert.Equal(t, 0.0, unrelated.GradWRT(z))
	assert.Equal(t, 0.0, z.GradWRT(x), "nodes after the output cannot reach it")
	assert.Equal(t, 2.0, x.GradWRT(z))
}

func TestBackward_IdempotentQueries(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(0.7)
	y := g.Leaf(1.3)
	z := x.Mul(y).Add(x.Div(y)).Pow(g.Const(2))

	first := x.Grad()
	second := x.Grad()
	assert.Equal(t, first, second)

	p1 := g.Backward(z.ID())
	p2 := g.Backward(z.ID())
	assert.Same(t, p1, p2, "pass should be cached for the current output")
	assert.Equal(t, first, p1.Of(x.ID()))
}

// TestBackward_NewOutputResetsContext extends an expression after a query;
// gradients must then be relative to the new output.
func TestBackward_NewOutputResetsContext(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	y := g.Leaf(5)
	z := x.Mul(y)

	assert.Equal(t, 5.0, x.Grad(), "dz/dx")

	w := z.Add(x) // w = xy + x
	assert.Equal(t, 6.0, x.Grad(), "dw/dx = y + 1")
	assert.Equal(t, 1.0, z.Grad(), "dw/dz")
	assert.Equal(t, 5.0, x.GradWRT(z), "dz/dx is still available explicitly")
	assert.Equal(t, 1.0, w.Grad())

	g.ResetGradients()
	assert.Equal(t, 6.0, x.Grad())
}

// TestBackward_RetainsOnlyCurrentPass grows an expression one node at a time
// and queries after every step; only the latest output's pass may stay cached.
func TestBackward_RetainsOnlyCurrentPass(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(1)
	v := x

	for i := 1; i <= 200; i++ {
		v = v.Add(x)
		require.Equal(t, float64(i+1), x.Grad())

		p := g.CachedPass()
		require.NotNil(t, p)
		assert.Equal(t, v.ID(), p.Output())
		assert.Equal(t, g.Len(), p.Len())
	}

	// An earlier output is recomputed into a fresh context, which then
	// replaces the cached one.
	latest := g.CachedPass()
	first := g.Backward(x.ID() + 1)
	assert.NotSame(t, latest, first)
	assert.Same(t, first, g.CachedPass())
	assert.Equal(t, 2.0, first.Of(x.ID()))

	g.ResetGradients()
	assert.Nil(t, g.CachedPass())
}

func TestBackward_AmbiguousOutput(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(2)
	a := x.Add(g.Const(1))
	b := x.Mul(g.Const(3))

	_, err := g.Output(x.ID())
	require.ErrorIs(t, err, autodiff.ErrAmbiguousOutput)

	_, err = g.Gradient(x.ID())
	require.ErrorIs(t, err, autodiff.ErrAmbiguousOutput)

	assert.Panics(t, func() { x.Grad() })

	assert.Equal(t, 1.0, x.GradWRT(a))
	assert.Equal(t, 3.0, x.GradWRT(b))

	// Joining both branches makes the output unique again.
	c := a.Add(b)
	out, err := g.Output(x.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), out)
	assert.Equal(t, 4.0, x.Grad())
}

func TestBackward_LeafOutput(t *testing.T) {
	g := autodiff.New()
	x := g.Leaf(3)

	p := g.Backward(x.ID())
	assert.Equal(t, x.ID(), p.Output())
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 0.0, p.Of(x.ID()))
	assert.Equal(t, 0.0, p.Of(-1))
	assert.Equal(t, 0.0, p.Of(100))
}

func TestGraph_ValueOutOfRange(t *testing.T) {
	g := autodiff.New()
	g.Leaf(1)

	assert.Equal(t, 1.0, g.Value(0).Value())
	assert.Panics(t, func() { g.Value(1) })
	assert.Panics(t, func() { g.Backward(-1) })
}
