package forces

import (
	"math"

	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
)

// NewtonianField implements Newton's law of universal gravitation: an
// inverse-square point-mass field that diverges as source and subject
// coincide.
//
// See https://en.wikipedia.org/wiki/Newton%27s_law_of_universal_gravitation.
type NewtonianField struct {
	GravitationalConstant float64
}

// NewNewtonianField returns a NewtonianField using DefaultGravitationalConstant.
func NewNewtonianField() *NewtonianField {
	return &NewtonianField{GravitationalConstant: DefaultGravitationalConstant}
}

// AddAcceleration implements Field.
func (f *NewtonianField) AddAcceleration(source, subject *particle.Particle, acceleration *geometry.Vector) {
	r := source.Displacement.Sub(subject.Displacement)
	distance := r.Norm()

	contribution := r.Scale(f.GravitationalConstant * source.Mass / math.Pow(distance, 3))
	*acceleration = acceleration.Add(contribution)
}
