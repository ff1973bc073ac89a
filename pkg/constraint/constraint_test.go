package constraint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelfLinear(t *testing.T) {
	exprs, err := Parse("width = 100, height = 100", ShapeSelf)
	require.NoError(t, err)
	require.Len(t, exprs, 2)

	assert.Equal(t, map[Var]int32{SX2: 1, SX1: -1}, exprs[0].Terms)
	assert.Equal(t, RelEq, exprs[0].Rel)
	assert.EqualValues(t, 100, exprs[0].RHS)

	assert.Equal(t, map[Var]int32{SY2: 1, SY1: -1}, exprs[1].Terms)
	assert.EqualValues(t, 100, exprs[1].RHS)
}

func TestParseBinaryCenterAndSizing(t *testing.T) {
	exprs, err := Parse("swidth = 30, sheight = 40, center", ShapeBinary)
	require.NoError(t, err)
	require.Len(t, exprs, 4)

	assert.False(t, exprs[0].Soft)
	assert.False(t, exprs[1].Soft)
	assert.True(t, exprs[2].Soft)
	assert.True(t, exprs[3].Soft)

	assert.Equal(t, map[Var]int32{SX1: 1, SX2: 1, OX1: -1, OX2: -1}, exprs[2].Terms)
	assert.EqualValues(t, 0, exprs[2].RHS)
}

func TestParseEdgeDistanceKeywords(t *testing.T) {
	exprs, err := Parse("ll_edge = 0, bt_edge = 5", ShapeBinary)
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, map[Var]int32{SX1: 1, OX1: -1}, exprs[0].Terms)
	assert.EqualValues(t, 0, exprs[0].RHS)
	assert.Equal(t, map[Var]int32{SY1: 1, OY2: -1}, exprs[1].Terms)
	assert.EqualValues(t, 5, exprs[1].RHS)
}

func TestParseStrictInequality(t *testing.T) {
	exprs, err := Parse("x1 > 10, y1 > 10, width = 5, height = 5", ShapeSelf)
	require.NoError(t, err)
	require.Len(t, exprs, 4)
	assert.Equal(t, RelGt, exprs[0].Rel)
	assert.EqualValues(t, 10, exprs[0].RHS)
}

func TestParseAbsoluteConstraint(t *testing.T) {
	exprs, err := Parse("sx1 = 0, sy1 = 0, sx2 = 10, sy2 = 10", ShapeAbs)
	require.NoError(t, err)
	require.Len(t, exprs, 4)
}

func TestDimensionErrorSelfWithPrefixedVar(t *testing.T) {
	_, err := Parse("sx1 = 0", ShapeSelf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimension))
}

func TestDimensionErrorAbsWithObjectVar(t *testing.T) {
	_, err := Parse("ox1 = 0", ShapeAbs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimension))
}

func TestParseErrorUnknownIdentifier(t *testing.T) {
	_, err := Parse("foo = 1", ShapeSelf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestParseErrorNonLinearProduct(t *testing.T) {
	_, err := Parse("x1 * x2 = 10", ShapeSelf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestParseConstantMultiplication(t *testing.T) {
	exprs, err := Parse("2 * (x2 - x1) = 20", ShapeSelf)
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, map[Var]int32{SX2: 2, SX1: -2}, exprs[0].Terms)
	assert.EqualValues(t, 20, exprs[0].RHS)
}

func TestParseNonStrictInequality(t *testing.T) {
	exprs, err := Parse("x1 <= 5, x1 >= 0", ShapeSelf)
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, RelLe, exprs[0].Rel)
	assert.Equal(t, RelGe, exprs[1].Rel)
}

func TestParseDirectionalKeywords(t *testing.T) {
	exprs, err := Parse("left, right, bottom, top", ShapeBinary)
	require.NoError(t, err)
	require.Len(t, exprs, 4)
	assert.Equal(t, map[Var]int32{SX1: 1, OX1: -1}, exprs[0].Terms)
	assert.Equal(t, map[Var]int32{SX2: 1, OX2: -1}, exprs[1].Terms)
	assert.Equal(t, map[Var]int32{SY1: 1, OY1: -1}, exprs[2].Terms)
	assert.Equal(t, map[Var]int32{SY2: 1, OY2: -1}, exprs[3].Terms)
}
