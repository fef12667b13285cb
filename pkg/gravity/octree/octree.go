package octree

import (
	"sync"

	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
	"github.com/oxygene76/gravity-octree/pkg/gravity/workerpool"
)

// Defaults for Octree construction.
const (
	DefaultLooseness   = 1.25
	DefaultMinWidth    = 1.0
	DefaultCapacity    = 8
	DefaultGrowthLimit = 10
	DefaultShrinkLimit = 10
)

// Octree is a loose, dynamic octree of particles. It grows its bounds when
// a particle would not otherwise fit, and shrinks them back when particles
// leave, up to the configured growth and shrink limits.
type Octree struct {
	mu sync.Mutex

	root        *TreeNode
	looseness   float64
	minWidth    float64
	capacity    int
	growthLimit int
	shrinkLimit int
	resized     int
}

// New returns an Octree rooted at bounds with the given tuning parameters.
func New(bounds geometry.BoundingBox, looseness, minWidth float64, capacity, growthLimit, shrinkLimit int) (*Octree, error) {
	if looseness < 1.0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "looseness must be >= 1.0")
	}
	if minWidth <= 0.0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "min width must be > 0.0")
	}
	if capacity < 1 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "capacity must be >= 1")
	}
	if growthLimit < 0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "growth limit must be >= 0")
	}
	if shrinkLimit < 0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "shrink limit must be >= 0")
	}

	return &Octree{
		root:        newTreeNode(bounds),
		looseness:   looseness,
		minWidth:    minWidth,
		capacity:    capacity,
		growthLimit: growthLimit,
		shrinkLimit: shrinkLimit,
	}, nil
}

// NewDefault returns an Octree rooted at bounds using the default tuning
// parameters.
func NewDefault(bounds geometry.BoundingBox) (*Octree, error) {
	return New(bounds, DefaultLooseness, DefaultMinWidth, DefaultCapacity, DefaultGrowthLimit, DefaultShrinkLimit)
}

// Root returns the tree's root node.
func (o *Octree) Root() *TreeNode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root
}

// Looseness returns the multiplier applied to a node's half-extents when
// testing containment.
func (o *Octree) Looseness() float64 { return o.looseness }

// MinWidth returns the node width at or below which, on any axis, a leaf
// no longer branches (a half-extent of at most MinWidth/2).
func (o *Octree) MinWidth() float64 { return o.minWidth }

// Capacity returns the maximum number of particles a leaf holds before
// branching.
func (o *Octree) Capacity() int { return o.capacity }

// GrowthLimit returns the maximum number of times the tree may grow beyond
// its initial bounds.
func (o *Octree) GrowthLimit() int { return o.growthLimit }

// ShrinkLimit returns the maximum number of times the tree may shrink below
// its initial bounds.
func (o *Octree) ShrinkLimit() int { return o.shrinkLimit }

// Resized returns the signed count of grow/shrink events relative to the
// tree's initial bounds: positive after net growth, negative after net
// shrinkage.
func (o *Octree) Resized() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resized
}

// Bounds returns the root node's bounds.
func (o *Octree) Bounds() geometry.BoundingBox {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root.Bounds()
}

// Insert places p into the tree, growing the root's bounds (up to
// GrowthLimit doublings) if p does not otherwise fit. Reports whether p was
// placed. On failure a leaf root gets its pre-attempt bounds and Resized
// back; a branched root is shrunk while exactly one child subtree holds
// particles, down to at most ShrinkLimit levels below the initial bounds.
func (o *Octree) Insert(p *particle.Particle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.insertLocked(p)
}

func (o *Octree) insertLocked(p *particle.Particle) bool {
	if o.root.Insert(p, o.looseness, o.minWidth, o.capacity) {
		return true
	}

	initialBounds, initialResized := o.root.bounds, o.resized

	for o.resized < o.growthLimit {
		o.root.Grow(p.Displacement, o.looseness, o.minWidth, o.capacity)
		o.resized++

		if o.root.Insert(p, o.looseness, o.minWidth, o.capacity) {
			return true
		}
	}

	if o.root.isLeaf() {
		o.root.bounds = initialBounds
		o.resized = initialResized
		return false
	}

	for ; o.resized > -o.shrinkLimit; o.resized-- {
		if !o.root.Shrink() {
			break
		}
	}

	return false
}

// Remove removes p from the tree, then shrinks the root while exactly one
// child subtree holds particles, down to at most ShrinkLimit levels below
// the initial bounds. Reports whether p was found.
func (o *Octree) Remove(p *particle.Particle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.root.Remove(p, o.capacity) {
		return false
	}

	for ; o.resized > -o.shrinkLimit; o.resized-- {
		if !o.root.Shrink() {
			break
		}
	}

	return true
}

// Update reconciles the tree with every particle's current bounds,
// re-inserting particles that moved out of their holding node. If pool is
// non-nil, the root's direct children are updated concurrently on it.
// Particles that no longer fit anywhere in the tree, even after growing to
// GrowthLimit, are returned.
func (o *Octree) Update(pool *workerpool.Pool) ([]*particle.Particle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed, err := o.root.Update(o.looseness, o.minWidth, o.capacity, pool)
	if err != nil {
		return nil, err
	}

	var stillRemoved []*particle.Particle
	for _, p := range removed {
		if !o.insertLocked(p) {
			stillRemoved = append(stillRemoved, p)
		}
	}

	return stillRemoved, nil
}

// Contains reports whether bounds is loosely contained within the tree.
func (o *Octree) Contains(bounds geometry.BoundingBox) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root.Contains(bounds, o.looseness)
}

// IsColliding reports whether any particle in the tree intersects bounds.
func (o *Octree) IsColliding(bounds geometry.BoundingBox) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root.IsColliding(bounds, o.looseness)
}

// Colliding returns every particle in the tree that intersects bounds.
func (o *Octree) Colliding(bounds geometry.BoundingBox) []*particle.Particle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root.Colliding(bounds, o.looseness)
}

// Empty reports whether the tree holds no particles.
func (o *Octree) Empty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.root.Empty()
}

// Particles returns every particle held anywhere in the tree.
func (o *Octree) Particles() []*particle.Particle {
	o.mu.Lock()
	defer o.mu.Unlock()

	var particles []*particle.Particle
	o.root.AllParticles(&particles)
	return particles
}
