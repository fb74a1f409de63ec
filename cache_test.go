package physics

import (
	"testing"

	"github.com/rexphysics/rex/constraint"
	"github.com/stretchr/testify/assert"
)

func TestPruneManifoldCache_DropsStaleEntries(t *testing.T) {
	cache := map[uint64]constraint.ManifoldCacheEntry{
		1: {LastTouchedFrame: 0},
		2: {LastTouchedFrame: 100},
	}
	pruneManifoldCache(cache, 100, 45)

	_, stillThere := cache[1]
	assert.False(t, stillThere)
	_, fresh := cache[2]
	assert.True(t, fresh)
}

func TestPruneManifoldCache_ToleratesFrameWraparound(t *testing.T) {
	cache := map[uint64]constraint.ManifoldCacheEntry{
		1: {LastTouchedFrame: 4294967290},
	}
	// frame wrapped to a small value just after LastTouchedFrame
	pruneManifoldCache(cache, 5, 45)

	_, stillThere := cache[1]
	assert.True(t, stillThere)
}

func TestPruneJointCache_FlushesPastCapacity(t *testing.T) {
	cache := make(map[uint64]float32)
	for i := uint64(0); i < jointCacheCapacity+1; i++ {
		cache[i] = 1
	}
	pruneJointCache(cache)
	assert.Empty(t, cache)
}

func TestPruneJointCache_KeepsUnderCapacity(t *testing.T) {
	cache := map[uint64]float32{1: 1, 2: 2}
	pruneJointCache(cache)
	assert.Len(t, cache, 2)
}
