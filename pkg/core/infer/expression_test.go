package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantGetSet(t *testing.T) {
	c := ConstInt(5)
	ctx := newCtx()

	w, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	v, err := w.AsInt()
	require.NoError(t, err)
	n, ok := v.Concretize()
	require.True(t, ok)
	assert.EqualValues(t, 5, n)

	assert.NoError(t, c.Set(ctx, WrapInt(OnlyInt(5))))
	assert.Error(t, c.Set(ctx, WrapInt(OnlyInt(6))))
	assert.Nil(t, c.Paths())
}

func TestVariableGetSet(t *testing.T) {
	ctx := newCtx()
	v := Variable{Path: Path{0, 0, 1}}

	_, ok, err := v.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "rank unset yet")

	require.NoError(t, v.Set(ctx, WrapInt(OnlyInt(3))))

	w, ok, err := v.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	n, err := w.AsInt()
	require.NoError(t, err)
	r, ok := n.Concretize()
	require.True(t, ok)
	assert.EqualValues(t, 3, r)

	assert.Equal(t, []Path{{0, 0, 1}}, v.Paths())
}

func TestScaledIntegerGetSet(t *testing.T) {
	ctx := newCtx()
	inner := Variable{Path: Path{0, 0, 1}}
	s := ScaledInteger{K: 2, Inner: inner}

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, inner.Set(ctx, WrapInt(OnlyInt(3))))
	w, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	v, err := w.AsInt()
	require.NoError(t, err)
	n, ok := v.Concretize()
	require.True(t, ok)
	assert.EqualValues(t, 6, n)
}

func TestScaledIntegerSetDivides(t *testing.T) {
	ctx := newCtx()
	inner := Variable{Path: Path{0, 0, 1}}
	s := ScaledInteger{K: 2, Inner: inner}

	require.NoError(t, s.Set(ctx, WrapInt(OnlyInt(6))))
	w, ok, err := inner.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	v, err := w.AsInt()
	require.NoError(t, err)
	n, ok := v.Concretize()
	require.True(t, ok)
	assert.EqualValues(t, 3, n)
}

func TestScaledIntegerSetNotDivisible(t *testing.T) {
	ctx := newCtx()
	inner := Variable{Path: Path{0, 0, 1}}
	s := ScaledInteger{K: 2, Inner: inner}

	err := s.Set(ctx, WrapInt(OnlyInt(5)))
	assert.ErrorIs(t, err, ErrNotDivisible)
}

func TestScaledIntegerZeroCoefficient(t *testing.T) {
	ctx := newCtx()
	inner := Variable{Path: Path{0, 0, 1}}
	s := ScaledInteger{K: 0, Inner: inner}

	assert.NoError(t, s.Set(ctx, WrapInt(OnlyInt(0))))
	assert.Error(t, s.Set(ctx, WrapInt(OnlyInt(4))))
}
