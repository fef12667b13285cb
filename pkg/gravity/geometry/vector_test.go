package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -1, 0.5)

	assert.Equal(t, New(5, 1, 3.5), a.Add(b))
	assert.Equal(t, New(-3, 3, 2.5), a.Sub(b))
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
}

func TestVectorDotAndCross(t *testing.T) {
	x := New(1, 0, 0)
	y := New(0, 1, 0)

	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, New(0, 0, 1), x.Cross(y))
	assert.Equal(t, 1.0, x.Norm())
}

func TestVectorIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, New(0, 0, 0.0001).IsZero())
}

func TestVectorAtAndWith(t *testing.T) {
	v := New(1, 2, 3)

	assert.Equal(t, 1.0, v.At(0))
	assert.Equal(t, 2.0, v.At(1))
	assert.Equal(t, 3.0, v.At(2))

	assert.Equal(t, New(1, 9, 3), v.With(1, 9))
}

func TestVectorAtPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { New(1, 2, 3).At(3) })
}

func TestAnyLessThan(t *testing.T) {
	v := New(1, 2, 3)

	assert.True(t, AnyLessThan(v, 2))
	assert.False(t, AnyLessThan(v, 0))
	assert.True(t, AnyLessThanOrEqualTo(v, 1))
	assert.False(t, AnyLessThanOrEqualTo(v, 0))
}
