package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidateRejectsBadOctreeParameters(t *testing.T) {
	cfg := Default()
	cfg.Octree.Looseness = 0.5
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Octree.MinWidth = 0
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Octree.Capacity = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownForceModel(t *testing.T) {
	cfg := Default()
	cfg.Algorithm.ForceModel = "relativistic"
	assert.Error(t, Validate(cfg))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Algorithm.Threshold = 2.5
	cfg.Octree.Capacity = 16

	path := filepath.Join(t.TempDir(), "gravitysim.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Algorithm.Threshold, loaded.Algorithm.Threshold)
	assert.Equal(t, cfg.Octree.Capacity, loaded.Octree.Capacity)
}

func TestLoadFallsBackToDefaultWhenNoFileFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
