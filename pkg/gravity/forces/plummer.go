package forces

import (
	"math"

	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
)

// PlummerField implements the Plummer model: a Newtonian field softened by
// the source particle's radius, so that AddAcceleration stays finite as
// source and subject coincide.
//
// See https://en.wikipedia.org/wiki/Plummer_model.
type PlummerField struct {
	GravitationalConstant float64
}

// NewPlummerField returns a PlummerField using DefaultGravitationalConstant.
func NewPlummerField() *PlummerField {
	return &PlummerField{GravitationalConstant: DefaultGravitationalConstant}
}

// AddAcceleration implements Field.
func (f *PlummerField) AddAcceleration(source, subject *particle.Particle, acceleration *geometry.Vector) {
	r := source.Displacement.Sub(subject.Displacement)
	softening := source.Radius()

	denom := math.Pow(r.Dot(r)+softening*softening, 1.5)
	contribution := r.Scale(f.GravitationalConstant * source.Mass / denom)
	*acceleration = acceleration.Add(contribution)
}
