package geometry

import (
	"fmt"
	"math"

	sdkerrors "cosmossdk.io/errors"

	"github.com/oxygene76/gravity-octree/pkg/gravity/apperrors"
)

// BoundingBox is an axis-aligned box described by its centre and per-axis
// extents (half-widths), all strictly positive.
type BoundingBox struct {
	centre  Vector
	extents Vector
}

// NewBoundingBox returns the BoundingBox centred at centre with the given
// full side-lengths (width). It rejects a width whose extent on any axis
// would be non-positive.
func NewBoundingBox(centre, width Vector) (BoundingBox, error) {
	return newFromExtents(centre, width.Scale(0.5))
}

// NewFromExtents returns the BoundingBox centred at centre with the given
// half-widths (extents). It rejects non-positive extents.
func NewFromExtents(centre, extents Vector) (BoundingBox, error) {
	return newFromExtents(centre, extents)
}

func newFromExtents(centre, extents Vector) (BoundingBox, error) {
	if AnyLessThanOrEqualTo(extents, 0) {
		return BoundingBox{}, sdkerrors.Wrap(apperrors.ErrInvalidArgument, "bounding box extents must be > 0")
	}

	return BoundingBox{centre: centre, extents: extents}, nil
}

// unsafeFromExtents builds a BoundingBox without validating extents. It is
// used on the hot path (Particle.Bounds, ShrinkTo, ExpandFrom) where the
// extents are already known to be positive.
func unsafeFromExtents(centre, extents Vector) BoundingBox {
	return BoundingBox{centre: centre, extents: extents}
}

// Centre returns the centre of the box.
func (b BoundingBox) Centre() Vector { return b.centre }

// Extents returns the half-widths of the box.
func (b BoundingBox) Extents() Vector { return b.extents }

// Intersects reports whether b overlaps other once b's half-extents are
// scaled by max(1, loose).
func (b BoundingBox) Intersects(other BoundingBox, loose float64) bool {
	factor := math.Max(1, loose)

	for axis := 0; axis < Dimensions; axis++ {
		half := b.extents.At(axis) * factor

		thisMin := b.centre.At(axis) - half
		thisMax := b.centre.At(axis) + half
		otherMin := other.centre.At(axis) - other.extents.At(axis)
		otherMax := other.centre.At(axis) + other.extents.At(axis)

		if thisMin > otherMax || thisMax < otherMin {
			return false
		}
	}

	return true
}

// Contains reports whether point lies within b once b's half-extents are
// scaled by loose (a loose of 0 is treated as an unscaled, tight check).
func (b BoundingBox) Contains(point Vector, loose float64) bool {
	for axis := 0; axis < Dimensions; axis++ {
		half := b.extents.At(axis)
		if loose > 0 {
			half *= loose
		}

		if point.At(axis) > b.centre.At(axis)+half || point.At(axis) < b.centre.At(axis)-half {
			return false
		}
	}

	return true
}

// ContainsBox reports whether other lies within b once b's half-extents are
// scaled by loose. A box is considered contained unless both its minimum
// and maximum on some axis fall outside b's loose bounds on that axis.
func (b BoundingBox) ContainsBox(other BoundingBox, loose float64) bool {
	for axis := 0; axis < Dimensions; axis++ {
		half := b.extents.At(axis)
		if loose > 0 {
			half *= loose
		}

		thisMin := b.centre.At(axis) - half
		thisMax := b.centre.At(axis) + half
		otherMin := other.centre.At(axis) - other.extents.At(axis)
		otherMax := other.centre.At(axis) + other.extents.At(axis)

		if (otherMin > thisMax || otherMin < thisMin) && (otherMax > thisMax || otherMax < thisMin) {
			return false
		}
	}

	return true
}

// Orthant returns the orthant of b that would contain point, even if point
// actually lies outside b.
func (b BoundingBox) Orthant(point Vector) Orthant {
	var o Orthant

	for axis := 0; axis < Dimensions; axis++ {
		o = o.AlignAxis(axis, point.At(axis) >= b.centre.At(axis))
	}

	return o
}

// ShrinkTo returns the sub-box of b occupying the given orthant: half the
// extents, centre shifted toward that orthant by the new half-extent.
func (b BoundingBox) ShrinkTo(orthant Orthant) BoundingBox {
	extents := b.extents.Scale(0.5)
	centre := b.centre

	for axis := 0; axis < Dimensions; axis++ {
		if orthant.IsAxisAligned(axis) {
			centre = centre.With(axis, centre.At(axis)+extents.At(axis))
		} else {
			centre = centre.With(axis, centre.At(axis)-extents.At(axis))
		}
	}

	return unsafeFromExtents(centre, extents)
}

// ExpandFrom returns the super-box of which b occupies the given orthant:
// double the extents, centre shifted away from that orthant.
func (b BoundingBox) ExpandFrom(orthant Orthant) BoundingBox {
	extents := b.extents.Scale(2)
	centre := b.centre

	for axis := 0; axis < Dimensions; axis++ {
		if orthant.IsAxisAligned(axis) {
			centre = centre.With(axis, centre.At(axis)-b.extents.At(axis))
		} else {
			centre = centre.With(axis, centre.At(axis)+b.extents.At(axis))
		}
	}

	return unsafeFromExtents(centre, extents)
}

// String implements fmt.Stringer for diagnostics and test failure output.
func (b BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox{centre: %v, extents: %v}", b.centre, b.extents)
}
