package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrthantAlignAxis(t *testing.T) {
	var o Orthant

	o = o.AlignAxis(0, false)
	assert.False(t, o.IsAxisAligned(0))
	assert.True(t, o.IsAxisAligned(1))

	o = o.AlignAxis(0, true)
	assert.True(t, o.IsAxisAligned(0))
}

func TestOrthantInvertIsInvolution(t *testing.T) {
	for o := Orthant(0); o < OrthantCount; o++ {
		assert.Equal(t, o, o.Invert().Invert())
	}
}

func TestOrthantInvertFlipsEveryAxis(t *testing.T) {
	var o Orthant
	o = o.AlignAxis(0, true).AlignAxis(1, false).AlignAxis(2, true)

	inverted := o.Invert()

	for axis := 0; axis < Dimensions; axis++ {
		assert.NotEqual(t, o.IsAxisAligned(axis), inverted.IsAxisAligned(axis))
	}
}

func TestOrthantIndex(t *testing.T) {
	for o := Orthant(0); o < OrthantCount; o++ {
		assert.Equal(t, int(o), o.Index())
	}
}
