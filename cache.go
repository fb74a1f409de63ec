package physics

import "github.com/rexphysics/rex/constraint"

const jointCacheCapacity = 4096

// pruneManifoldCache drops manifold cache entries that have not been
// touched within cachePersistenceFrames, tolerating frame_counter wrap.
func pruneManifoldCache(cache map[uint64]constraint.ManifoldCacheEntry, frame uint32, maxAge uint32) {
	for key, entry := range cache {
		if frame-entry.LastTouchedFrame > maxAge {
			delete(cache, key)
		}
	}
}

// pruneJointCache flushes the entire joint impulse cache once it grows
// past capacity, rather than evicting individual entries — joints are
// few and short-lived relative to contacts, so a full flush is simpler
// and only costs one frame of warm-start.
func pruneJointCache(cache map[uint64]float32) {
	if len(cache) > jointCacheCapacity {
		for k := range cache {
			delete(cache, k)
		}
	}
}
