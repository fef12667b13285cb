package octree

import (
	"sync"

	"github.com/oxygene76/gravity-octree/pkg/gravity/geometry"
)

// PointMass is the aggregate mass and centre of mass of every particle
// transitively held by a TreeNode.
type PointMass struct {
	Mass         float64
	Displacement geometry.Vector
}

// MassCalculator computes and caches the PointMass of TreeNodes. Results
// are cached only for a node that does not already have a cache entry; a
// thread that loses the race to populate an entry waits on the winner's
// result rather than recomputing it. The cache is keyed by TreeNode
// identity and must be cleared whenever the tree it was computed against is
// mutated.
type MassCalculator struct {
	mu    sync.RWMutex
	cache sync.Map // map[*TreeNode]*massCacheEntry
}

type massCacheEntry struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ready  bool
	result PointMass
}

func newMassCacheEntry() *massCacheEntry {
	e := &massCacheEntry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// NewMassCalculator returns an empty MassCalculator.
func NewMassCalculator() *MassCalculator {
	return &MassCalculator{}
}

// ClearCache removes every cached result. It excludes concurrent
// Calculate calls until it completes.
func (m *MassCalculator) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Range(func(key, _ any) bool {
		m.cache.Delete(key)
		return true
	})
}

// ClearCacheFor removes the cached result for node only; cached results for
// its ancestors are left untouched and will be stale until they too are
// cleared or recomputed against a fresh tree.
func (m *MassCalculator) ClearCacheFor(node *TreeNode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Delete(node)
}

// Calculate returns the PointMass of node, computing and caching it if
// necessary.
func (m *MassCalculator) Calculate(node *TreeNode) PointMass {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findOrCalculate(node)
}

func (m *MassCalculator) findOrCalculate(node *TreeNode) PointMass {
	if v, ok := m.cache.Load(node); ok {
		return waitForMassResult(v.(*massCacheEntry))
	}

	entry := newMassCacheEntry()

	actual, loaded := m.cache.LoadOrStore(node, entry)
	winner := actual.(*massCacheEntry)

	if loaded {
		return waitForMassResult(winner)
	}

	result := m.aggregate(node)

	winner.mu.Lock()
	winner.result = result
	winner.ready = true
	winner.mu.Unlock()
	winner.cond.Broadcast()

	return result
}

func (m *MassCalculator) aggregate(node *TreeNode) PointMass {
	var pm PointMass

	for _, child := range node.children {
		contribution := m.findOrCalculate(child)
		pm.Mass += contribution.Mass
		pm.Displacement = pm.Displacement.Add(contribution.Displacement.Scale(contribution.Mass))
	}

	for _, p := range node.particles {
		pm.Mass += p.Mass
		pm.Displacement = pm.Displacement.Add(p.Displacement.Scale(p.Mass))
	}

	if pm.Mass != 0.0 {
		pm.Displacement = pm.Displacement.Scale(1.0 / pm.Mass)
	}

	return pm
}

func waitForMassResult(e *massCacheEntry) PointMass {
	e.mu.Lock()
	defer e.mu.Unlock()

	for !e.ready {
		e.cond.Wait()
	}

	return e.result
}
