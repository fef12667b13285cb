// Command gravitysim builds an octree over a synthetic particle
// distribution and evaluates the Barnes-Hut approximation of the
// gravitational acceleration on each particle. It performs no time
// integration: this demonstrates a single force evaluation and, with
// --steps, repeated Update/evaluate passes with the particles' positions
// left untouched between them, since integrating the equations of motion
// is out of scope for this module.
package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxygene76/gravity-octree/internal/config"
	"github.com/oxygene76/gravity-octree/pkg/gravity/barneshut"
	"github.com/oxygene76/gravity-octree/pkg/gravity/forces"
	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
	"github.com/oxygene76/gravity-octree/pkg/gravity/octree"
	"github.com/oxygene76/gravity-octree/pkg/gravity/particle"
	"github.com/oxygene76/gravity-octree/pkg/gravity/workerpool"
)

var (
	cfgFile      string
	particleFlag int
	stepsFlag    int
	seedFlag     int64
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravitysim",
		Short: "Evaluate Barnes-Hut gravitational acceleration over a particle distribution",
		Long: `gravitysim builds a loose octree over a set of particles and evaluates
the net acceleration on each of them using the Barnes-Hut approximation.`,
		RunE: run,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gravitysim.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().IntVar(&particleFlag, "particles", 512, "number of synthetic particles to distribute")
	rootCmd.Flags().IntVar(&stepsFlag, "steps", 1, "number of Update/evaluate passes to run")
	rootCmd.Flags().Int64Var(&seedFlag, "seed", 1, "random seed for the synthetic distribution")

	cobra.OnInitialize(func() { initConfig() })

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func initConfig() {
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Println("using config file:", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	bounds, err := geometry.NewBoundingBox(geometry.Zero, geometry.New(cfg.Octree.BoundsWidth, cfg.Octree.BoundsWidth, cfg.Octree.BoundsWidth))
	if err != nil {
		return fmt.Errorf("building root bounds: %w", err)
	}

	tree, err := octree.New(bounds, cfg.Octree.Looseness, cfg.Octree.MinWidth, cfg.Octree.Capacity, cfg.Octree.GrowthLimit, cfg.Octree.ShrinkLimit)
	if err != nil {
		return fmt.Errorf("building octree: %w", err)
	}

	field, err := buildField(cfg.Algorithm)
	if err != nil {
		return err
	}

	algorithm, err := barneshut.New(tree, field, cfg.Algorithm.Threshold)
	if err != nil {
		return fmt.Errorf("building barnes-hut algorithm: %w", err)
	}

	particles := syntheticParticles(particleFlag, cfg.Octree.BoundsWidth, seedFlag)
	for _, p := range particles {
		if !tree.Insert(p) {
			return fmt.Errorf("particle at %v could not be placed in the tree", p.Displacement)
		}
	}

	pool := workerpool.New(cfg.Workers.Count)

	for step := 0; step < stepsFlag; step++ {
		if step > 0 {
			if _, err := algorithm.Update(pool); err != nil {
				return fmt.Errorf("step %d: updating tree: %w", step, err)
			}
		}

		total := 0.0
		for _, p := range particles {
			acceleration := algorithm.Acceleration(p)
			total += acceleration.Norm()
		}

		if verbose {
			fmt.Printf("step %d: mean |a| = %.6e\n", step, total/float64(len(particles)))
		}
	}

	fmt.Printf("evaluated %d particles over %d step(s) with threshold %.3f\n", len(particles), stepsFlag, algorithm.Threshold())

	return nil
}

func buildField(cfg config.AlgorithmConfig) (forces.Field, error) {
	switch cfg.ForceModel {
	case config.ForceModelPlummer:
		return &forces.PlummerField{GravitationalConstant: cfg.GravitationalConstant}, nil
	case config.ForceModelNewtonian:
		return &forces.NewtonianField{GravitationalConstant: cfg.GravitationalConstant}, nil
	default:
		return nil, fmt.Errorf("unknown force model %q", cfg.ForceModel)
	}
}

func syntheticParticles(count int, boundsWidth float64, seed int64) []*particle.Particle {
	rng := rand.New(rand.NewSource(seed))
	radius := boundsWidth / 2

	particles := make([]*particle.Particle, 0, count)
	for i := 0; i < count; i++ {
		displacement := geometry.New(
			(rng.Float64()*2-1)*radius*0.9,
			(rng.Float64()*2-1)*radius*0.9,
			(rng.Float64()*2-1)*radius*0.9,
		)

		mass := 1.0 + rng.Float64()*math.Pi

		p, err := particle.New(mass, displacement, geometry.Zero, geometry.New(1, 1, 1))
		if err != nil {
			// Every argument here is validated to be within range above,
			// so New cannot fail.
			panic(err)
		}

		particles = append(particles, p)
	}

	return particles
}
