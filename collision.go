package physics

import "github.com/rexphysics/rex/actor"

// BodyPair is an unordered index pair emitted by the broadphase.
type BodyPair struct {
	A, B int
}

// BroadPhase computes a world-space bounding sphere per body (padded
// by motion for dynamic bodies) and emits every pair whose spheres
// overlap and where at least one side is dynamic. O(N²) is accepted
// for the supported scale; the returned set only needs to be a
// superset of the pairs that actually collide.
func BroadPhase(bodies []*actor.Body, dt float32) []BodyPair {
	spheres := make([]actor.BoundingSphere, len(bodies))
	for i, b := range bodies {
		speed := sqrtf32(b.Velocity.Dot(b.Velocity))
		pad := float32(0)
		if b.BodyType == actor.BodyTypeDynamic {
			pad = speed * dt
		}
		spheres[i] = actor.ComputeBoundingSphere(b, b.Position, b.Orientation, pad)
	}

	pairs := make([]BodyPair, 0, len(bodies))
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].InvMass+bodies[j].InvMass <= 0 {
				continue
			}
			d := spheres[j].Center.Sub(spheres[i].Center)
			r := spheres[i].Radius + spheres[j].Radius
			if d.Dot(d) <= r*r {
				pairs = append(pairs, BodyPair{i, j})
			}
		}
	}
	return pairs
}
