// Package forces provides pluggable inter-particle force kernels used by
// the Barnes-Hut evaluator: a Newtonian point-mass field and a Plummer
// softened field.
package forces

import (
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
)

// DefaultGravitationalConstant is the CODATA value of G, in SI units. Kept
// as a named constant rather than baked into a Field, since force kernels
// are meant to be caller-parameterised.
const DefaultGravitationalConstant = 6.67430e-11

// Field computes the acceleration one particle exerts on another.
type Field interface {
	// AddAcceleration adds the acceleration subject experiences due to
	// source to acceleration, in place.
	AddAcceleration(source, subject *particle.Particle, acceleration *geometry.Vector)
}

// Acceleration returns the acceleration subject experiences due to source
// under f.
func Acceleration(f Field, source, subject *particle.Particle) geometry.Vector {
	a := geometry.Zero
	f.AddAcceleration(source, subject, &a)
	return a
}

// Force returns the force subject experiences due to source under f, i.e.
// Acceleration scaled by subject's mass.
func Force(f Field, source, subject *particle.Particle) geometry.Vector {
	return Acceleration(f, source, subject).Scale(subject.Mass)
}
