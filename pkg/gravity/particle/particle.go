// Package particle defines the mutable point-mass records the octree and
// force-field packages operate on. A Particle is owned by the caller; the
// tree only ever reads it.
package particle

import (
	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
)

// Particle is a point mass with an ellipsoidal extent used for bounds
// computation and, through Radius, as PlummerField's softening length;
// NewtonianField treats it as a point.
type Particle struct {
	Mass         float64
	Displacement geometry.Vector
	Velocity     geometry.Vector
	Acceleration geometry.Vector
	Radii        geometry.Vector
}

// New returns a Particle with mass m, displacement p and velocity v, and
// per-axis radii used for its bounding box. Mass must be strictly positive;
// radii must be strictly positive on every axis.
func New(m float64, p, v, radii geometry.Vector) (*Particle, error) {
	if m <= 0 {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "particle mass must be > 0")
	}

	if geometry.AnyLessThanOrEqualTo(radii, 0) {
		return nil, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "particle radii must be > 0")
	}

	return &Particle{
		Mass:         m,
		Displacement: p,
		Velocity:     v,
		Radii:        radii,
	}, nil
}

// Bounds returns the axis-aligned box centred on the particle's displacement
// with its radii as extents.
func (p *Particle) Bounds() geometry.BoundingBox {
	box, err := geometry.NewFromExtents(p.Displacement, p.Radii)
	if err != nil {
		// Radii were validated at construction and are not mutated by the
		// tree or the force kernels, so this can only fire if the caller
		// zeroed them out directly, which is a misuse of the exported field.
		panic("particle: radii became non-positive after construction: " + err.Error())
	}
	return box
}

// Radius returns the largest per-axis radius, the scalar softening length
// PlummerField uses.
func (p *Particle) Radius() float64 {
	r := p.Radii.X
	if p.Radii.Y > r {
		r = p.Radii.Y
	}
	if p.Radii.Z > r {
		r = p.Radii.Z
	}
	return r
}
