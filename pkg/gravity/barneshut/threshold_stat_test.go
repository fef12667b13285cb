package barneshut

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/gravity-octree/pkg/gravity/forces"
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/octree"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
)

// TestRelativeErrorMeanGrowsWithThreshold checks the statistical shape of the
// θ/accuracy tradeoff rather than any single probe: as threshold grows, the
// mean relative error against the direct-sum baseline should not shrink.
func TestRelativeErrorMeanGrowsWithThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	bounds, err := geometry.NewBoundingBox(geometry.Zero, geometry.New(2000, 2000, 2000))
	require.NoError(t, err)

	tree, err := octree.New(bounds, 1.25, 0.5, 4, 10, 10)
	require.NoError(t, err)

	field := forces.NewNewtonianField()

	const sourceCount = 200
	sources := make([]*particle.Particle, 0, sourceCount)
	for i := 0; i < sourceCount; i++ {
		at := geometry.New(
			(rng.Float64()-0.5)*1000,
			(rng.Float64()-0.5)*1000,
			(rng.Float64()-0.5)*1000,
		)
		p, err := particle.New(1+rng.Float64()*10, at, geometry.Zero, geometry.New(0.1, 0.1, 0.1))
		require.NoError(t, err)
		require.True(t, tree.Insert(p))
		sources = append(sources, p)
	}

	probes := make([]*particle.Particle, 0, 20)
	for i := 0; i < 20; i++ {
		at := geometry.New(
			(rng.Float64()-0.5)*1500,
			(rng.Float64()-0.5)*1500,
			(rng.Float64()-0.5)*1500,
		)
		p, err := particle.New(1, at, geometry.Zero, geometry.New(0.1, 0.1, 0.1))
		require.NoError(t, err)
		probes = append(probes, p)
	}

	directSum := func(subject *particle.Particle) geometry.Vector {
		acc := geometry.Zero
		for _, s := range sources {
			field.AddAcceleration(s, subject, &acc)
		}
		return acc
	}

	relativeErrors := func(threshold float64) []float64 {
		algorithm, err := New(tree, field, threshold)
		require.NoError(t, err)

		errs := make([]float64, 0, len(probes))
		for _, p := range probes {
			exact := directSum(p)
			approx := algorithm.Acceleration(p)
			denom := exact.Norm()
			if denom == 0 {
				continue
			}
			errs = append(errs, approx.Sub(exact).Norm()/denom)
		}
		return errs
	}

	tight := relativeErrors(0.1)
	loose := relativeErrors(1.5)

	meanTight, _ := stat.MeanVariance(tight, nil)
	meanLoose, _ := stat.MeanVariance(loose, nil)

	require.False(t, math.IsNaN(meanTight))
	require.False(t, math.IsNaN(meanLoose))
	require.GreaterOrEqual(t, meanLoose, meanTight-1e-9)
}
