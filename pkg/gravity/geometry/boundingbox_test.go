package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundingBoxRejectsNonPositiveWidth(t *testing.T) {
	_, err := NewBoundingBox(Zero, New(0, 1, 1))
	assert.Error(t, err)

	_, err = NewBoundingBox(Zero, New(-1, 1, 1))
	assert.Error(t, err)
}

func TestShrinkExpandRoundTrip(t *testing.T) {
	box, err := NewBoundingBox(New(1, 2, 3), New(8, 8, 8))
	require.NoError(t, err)

	for o := Orthant(0); o < OrthantCount; o++ {
		shrunk := box.ShrinkTo(o)
		assert.Equal(t, box, shrunk.ExpandFrom(o), "orthant %d: shrink then expand", o)

		expanded := box.ExpandFrom(o)
		assert.Equal(t, box, expanded.ShrinkTo(o), "orthant %d: expand then shrink", o)
	}
}

func TestOrthantOfIsStableUnderShrink(t *testing.T) {
	box, err := NewBoundingBox(Zero, New(10, 10, 10))
	require.NoError(t, err)

	point := New(2, -1, 4)
	require.True(t, box.Contains(point, 1))

	orthant := box.Orthant(point)
	assert.Equal(t, orthant, box.ShrinkTo(orthant).Orthant(point))
}

func TestIntersectsIsSymmetric(t *testing.T) {
	a, err := NewBoundingBox(Zero, New(4, 4, 4))
	require.NoError(t, err)

	b, err := NewBoundingBox(New(3, 0, 0), New(4, 4, 4))
	require.NoError(t, err)

	assert.Equal(t, a.Intersects(b, 1), b.Intersects(a, 1))
}

func TestContainsIsReflexive(t *testing.T) {
	box, err := NewBoundingBox(New(5, 5, 5), New(2, 2, 2))
	require.NoError(t, err)

	assert.True(t, box.ContainsBox(box, 1))
	assert.True(t, box.Contains(box.Centre(), 1))
}

func TestContainsRespectsLooseness(t *testing.T) {
	box, err := NewBoundingBox(Zero, New(2, 2, 2))
	require.NoError(t, err)

	point := New(1.4, 0, 0)
	assert.False(t, box.Contains(point, 1))
	assert.True(t, box.Contains(point, 1.5))
}
