package octree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
)

func TestNodeBranchesOnceCapacityExceeded(t *testing.T) {
	bounds := newTestBounds(t, 4)
	n := newTreeNode(bounds)

	a := newTestParticle(t, geometry.New(1, 1, 1))
	b := newTestParticle(t, geometry.New(-1, -1, -1))

	require.True(t, n.Insert(a, 1.0, 0.01, 1))
	assert.True(t, n.isLeaf())

	require.True(t, n.Insert(b, 1.0, 0.01, 1))
	assert.False(t, n.isLeaf())
	require.Len(t, n.Children(), geometry.OrthantCount)

	var all []*particle.Particle
	n.AllParticles(&all)
	assert.ElementsMatch(t, []*particle.Particle{a, b}, all)
}

func TestNodeMergesWhenRemovalDropsBelowCapacity(t *testing.T) {
	bounds := newTestBounds(t, 4)
	n := newTreeNode(bounds)

	a := newTestParticle(t, geometry.New(1, 1, 1))
	b := newTestParticle(t, geometry.New(-1, -1, -1))

	require.True(t, n.Insert(a, 1.0, 0.01, 1))
	require.True(t, n.Insert(b, 1.0, 0.01, 1))
	require.False(t, n.isLeaf())

	require.True(t, n.Remove(b, 1))

	assert.True(t, n.isLeaf())
	assert.Equal(t, []*particle.Particle{a}, n.Particles())
}

func TestNodeShrinkReturnsFalseOnLeaf(t *testing.T) {
	n := newTreeNode(newTestBounds(t, 4))
	assert.False(t, n.Shrink())
}

func TestNodeShrinkReturnsFalseWhenMoreThanOneChildHasParticles(t *testing.T) {
	bounds := newTestBounds(t, 4)
	n := newTreeNode(bounds)
	n.children = make([]*TreeNode, geometry.OrthantCount)
	for o := 0; o < geometry.OrthantCount; o++ {
		n.children[o] = newTreeNode(bounds.ShrinkTo(geometry.Orthant(o)))
	}

	a := newTestParticle(t, geometry.New(1, 1, 1))
	b := newTestParticle(t, geometry.New(-1, -1, -1))
	n.children[bounds.Orthant(a.Displacement).Index()].particles = []*particle.Particle{a}
	n.children[bounds.Orthant(b.Displacement).Index()].particles = []*particle.Particle{b}

	assert.False(t, n.Shrink())
}

func TestNodeShrinkCollapsesToSoleNonEmptyChild(t *testing.T) {
	bounds := newTestBounds(t, 4)
	n := newTreeNode(bounds)
	n.children = make([]*TreeNode, geometry.OrthantCount)
	for o := 0; o < geometry.OrthantCount; o++ {
		n.children[o] = newTreeNode(bounds.ShrinkTo(geometry.Orthant(o)))
	}

	p := newTestParticle(t, geometry.New(1, 1, 1))
	occupied := bounds.Orthant(p.Displacement)
	expectedBounds := n.children[occupied.Index()].Bounds()
	n.children[occupied.Index()].particles = []*particle.Particle{p}

	require.True(t, n.Shrink())

	assert.True(t, n.isLeaf())
	assert.Equal(t, expectedBounds, n.Bounds())
	assert.Equal(t, []*particle.Particle{p}, n.Particles())
}

func TestNodeGrowOnLeafDoublesBoundsInPlace(t *testing.T) {
	bounds := newTestBounds(t, 2)
	n := newTreeNode(bounds)

	point := geometry.New(10, 0, 0)
	orthant := bounds.Orthant(point).Invert()
	expected := bounds.ExpandFrom(orthant)

	n.Grow(point, 1.25, 0.1, 8)

	assert.True(t, n.isLeaf())
	assert.Equal(t, expected, n.Bounds())
}

func TestNodeGrowOnBranchedNodeWrapsPreviousContentsAsAChild(t *testing.T) {
	bounds := newTestBounds(t, 2)
	n := newTreeNode(bounds)
	n.children = make([]*TreeNode, geometry.OrthantCount)
	for o := 0; o < geometry.OrthantCount; o++ {
		n.children[o] = newTreeNode(bounds.ShrinkTo(geometry.Orthant(o)))
	}

	p := newTestParticle(t, geometry.New(0.5, 0.5, 0.5))
	n.children[bounds.Orthant(p.Displacement).Index()].particles = []*particle.Particle{p}

	point := geometry.New(50, 0, 0)
	orthant := bounds.Orthant(point).Invert()
	expectedBounds := bounds.ExpandFrom(orthant)

	n.Grow(point, 1.25, 0.1, 8)

	assert.False(t, n.isLeaf())
	assert.Equal(t, expectedBounds, n.Bounds())
	require.Len(t, n.Children(), geometry.OrthantCount)

	var all []*particle.Particle
	n.AllParticles(&all)
	assert.Equal(t, []*particle.Particle{p}, all)

	// The previous root's own bounds and structure now live one level
	// deeper, at the child occupying the inverted growth orthant.
	wrapped := n.Children()[orthant.Index()]
	assert.Equal(t, bounds, wrapped.Bounds())
	assert.False(t, wrapped.isLeaf())
}
