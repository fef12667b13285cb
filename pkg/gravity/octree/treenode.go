// Package octree implements a loose, dynamic octree of Particle handles and
// the MassCalculator that memoises centre-of-mass aggregates over it.
package octree

import (
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
	"github.com/oxygene76/gravity-octree/pkg/gravity/workerpool"
)

// TreeNode is one node of a loose octree. children is either nil (a leaf)
// or exactly geometry.OrthantCount entries, indexed by orthant.
type TreeNode struct {
	bounds    geometry.BoundingBox
	children  []*TreeNode
	particles []*particle.Particle
}

func newTreeNode(bounds geometry.BoundingBox) *TreeNode {
	return &TreeNode{bounds: bounds}
}

// Bounds returns the region within which every particle transitively held
// by this node is loosely contained.
func (n *TreeNode) Bounds() geometry.BoundingBox { return n.bounds }

// Particles returns the particles held directly at this node, excluding
// its children.
func (n *TreeNode) Particles() []*particle.Particle { return n.particles }

// Children returns this node's children, or nil if it is a leaf.
func (n *TreeNode) Children() []*TreeNode { return n.children }

func (n *TreeNode) isLeaf() bool { return len(n.children) == 0 }

func (n *TreeNode) isMinWidth(minWidth float64) bool {
	return geometry.AnyLessThanOrEqualTo(n.bounds.Extents(), minWidth/2.0)
}

func (n *TreeNode) nearestChild(p *particle.Particle) *TreeNode {
	return n.children[n.bounds.Orthant(p.Bounds().Centre()).Index()]
}

// Insert places p into this node or one of its descendants, branching this
// node if it is a leaf at capacity and above min_width. Reports whether p
// was placed.
func (n *TreeNode) Insert(p *particle.Particle, looseness, minWidth float64, capacity int) bool { //nolint:revive
	if p == nil || !n.bounds.ContainsBox(p.Bounds(), looseness) {
		return false
	}

	if n.isLeaf() {
		if len(n.particles) < capacity || n.isMinWidth(minWidth) {
			n.particles = append(n.particles, p)
			return true
		}

		n.branch(looseness, minWidth, capacity)
	}

	if !n.nearestChild(p).Insert(p, looseness, minWidth, capacity) {
		n.particles = append(n.particles, p)
	}

	return true
}

// Remove removes p from this node or a descendant, merging children back
// into their parent if doing so would not exceed capacity. Reports whether
// p was found and removed.
func (n *TreeNode) Remove(p *particle.Particle, capacity int) bool {
	if p == nil {
		return false
	}

	if idx := indexOfParticle(n.particles, p); idx >= 0 {
		n.particles = removeParticleAt(n.particles, idx)
		return true
	}

	if n.isLeaf() {
		return false
	}

	child := n.nearestChild(p)
	if !child.Remove(p, capacity) {
		return false
	}

	if n.shouldMerge(capacity) {
		n.merge()
	}

	return true
}

// Shrink replaces this node's contents with those of its sole non-empty
// child, if exactly one exists. Reports whether the shrink happened.
func (n *TreeNode) Shrink() bool {
	if n.isLeaf() || len(n.particles) > 0 {
		return false
	}

	orthant, ok := n.oneChildHasParticles()
	if !ok {
		return false
	}

	*n = *n.children[orthant.Index()]

	return true
}

// Grow replaces this node with a new, larger root built off to the side:
// the new root's bounds are double this node's, expanded toward point, and
// this node's previous contents become one of the new root's children. A
// leaf only has its bounds replaced by the doubled bounds, in place.
func (n *TreeNode) Grow(point geometry.Vector, looseness, minWidth float64, capacity int) {
	orthant := n.bounds.Orthant(point).Invert()
	grown := n.bounds.ExpandFrom(orthant)

	if n.isLeaf() {
		n.bounds = grown
		return
	}

	root := newTreeNode(grown)
	root.branch(looseness, minWidth, capacity)

	old := &TreeNode{bounds: n.bounds, children: n.children, particles: n.particles}
	root.children[orthant.Index()] = old

	*n = *root
}

// Contains reports whether bounds is loosely contained within this node.
func (n *TreeNode) Contains(bounds geometry.BoundingBox, looseness float64) bool {
	return n.bounds.ContainsBox(bounds, looseness)
}

// IsColliding reports whether any particle transitively held by this node
// intersects bounds.
func (n *TreeNode) IsColliding(bounds geometry.BoundingBox, looseness float64) bool {
	if !n.bounds.Intersects(bounds, looseness) {
		return false
	}

	for _, p := range n.particles {
		if p != nil && p.Bounds().Intersects(bounds, 1) {
			return true
		}
	}

	for _, child := range n.children {
		if child.IsColliding(bounds, looseness) {
			return true
		}
	}

	return false
}

// Colliding returns every particle transitively held by this node that
// intersects bounds.
func (n *TreeNode) Colliding(bounds geometry.BoundingBox, looseness float64) []*particle.Particle {
	var colliding []*particle.Particle
	n.collectColliding(bounds, looseness, &colliding)
	return colliding
}

func (n *TreeNode) collectColliding(bounds geometry.BoundingBox, looseness float64, out *[]*particle.Particle) {
	if !n.bounds.Intersects(bounds, looseness) {
		return
	}

	for _, p := range n.particles {
		if p != nil && p.Bounds().Intersects(bounds, 1) {
			*out = append(*out, p)
		}
	}

	for _, child := range n.children {
		child.collectColliding(bounds, looseness, out)
	}
}

// Empty reports whether this node and every descendant hold no particles.
func (n *TreeNode) Empty() bool {
	if len(n.particles) > 0 {
		return false
	}

	for _, child := range n.children {
		if !child.Empty() {
			return false
		}
	}

	return true
}

// AllParticles appends every particle transitively held by this node to out.
func (n *TreeNode) AllParticles(out *[]*particle.Particle) {
	*out = append(*out, n.particles...)

	for _, child := range n.children {
		child.AllParticles(out)
	}
}

func (n *TreeNode) branch(looseness, minWidth float64, capacity int) {
	n.children = make([]*TreeNode, geometry.OrthantCount)
	for o := 0; o < geometry.OrthantCount; o++ {
		n.children[o] = newTreeNode(n.bounds.ShrinkTo(geometry.Orthant(o)))
	}

	remaining := n.particles[:0]
	for _, p := range n.particles {
		if !n.nearestChild(p).Insert(p, looseness, minWidth, capacity) {
			remaining = append(remaining, p)
		}
	}
	n.particles = remaining
}

func (n *TreeNode) merge() {
	for _, child := range n.children {
		child.AllParticles(&n.particles)
	}
	n.children = nil
}

func (n *TreeNode) shouldMerge(capacity int) bool {
	count := len(n.particles)

	for _, child := range n.children {
		var held []*particle.Particle
		child.AllParticles(&held)
		count += len(held)
		if count > capacity {
			return false
		}
	}

	return count <= capacity
}

func (n *TreeNode) oneChildHasParticles() (geometry.Orthant, bool) {
	var found geometry.Orthant
	hasParticles := false

	for i, child := range n.children {
		if child.Empty() {
			continue
		}

		if hasParticles {
			return 0, false
		}

		hasParticles = true
		found = geometry.Orthant(i)
	}

	return found, hasParticles
}

// Update prunes particles that no longer fit their holding node's bounds,
// re-inserting each one at the nearest ancestor that still loosely contains
// it, and merges any
// node whose subtree total falls back within capacity. It returns the
// particles that could not be re-inserted anywhere in this subtree. If pool
// is non-nil, this node's direct children are updated concurrently on it;
// pool is never propagated below that single level.
func (n *TreeNode) Update(looseness, minWidth float64, capacity int, pool *workerpool.Pool) ([]*particle.Particle, error) {
	var removed []*particle.Particle

	if !n.isLeaf() {
		childResults := make([][]*particle.Particle, len(n.children))

		if pool != nil {
			indices := make([]int, len(n.children))
			for i := range indices {
				indices[i] = i
			}

			err := workerpool.ForEach(pool, indices, func(i int) error {
				r, err := n.children[i].updateSequential(looseness, minWidth, capacity)
				childResults[i] = r
				return err
			})
			if err != nil {
				return nil, err
			}
		} else {
			for i, child := range n.children {
				r, err := child.updateSequential(looseness, minWidth, capacity)
				if err != nil {
					return nil, err
				}
				childResults[i] = r
			}
		}

		for _, r := range childResults {
			removed = append(removed, r...)
		}
	}

	removed = append(removed, n.pruneOwnParticles(looseness)...)

	remaining := removed[:0]
	for _, p := range removed {
		if !n.Insert(p, looseness, minWidth, capacity) {
			remaining = append(remaining, p)
		}
	}
	removed = remaining

	if !n.isLeaf() && n.shouldMerge(capacity) {
		n.merge()
	}

	return removed, nil
}

func (n *TreeNode) updateSequential(looseness, minWidth float64, capacity int) ([]*particle.Particle, error) {
	return n.Update(looseness, minWidth, capacity, nil)
}

func (n *TreeNode) pruneOwnParticles(looseness float64) []*particle.Particle {
	var displaced []*particle.Particle

	kept := n.particles[:0]
	for _, p := range n.particles {
		if p == nil || !n.bounds.ContainsBox(p.Bounds(), looseness) {
			displaced = append(displaced, p)
		} else {
			kept = append(kept, p)
		}
	}
	n.particles = kept

	return displaced
}

func indexOfParticle(particles []*particle.Particle, target *particle.Particle) int {
	for i, p := range particles {
		if p == target {
			return i
		}
	}
	return -1
}

func removeParticleAt(particles []*particle.Particle, idx int) []*particle.Particle {
	particles[idx] = particles[len(particles)-1]
	return particles[:len(particles)-1]
}
