package physics

import "github.com/rexphysics/rex/actor"

// RaycastHit is the result of World.Raycast. Hit is false for a miss;
// fields beyond Hit are zero in that case.
type RaycastHit struct {
	Hit      bool
	BodyID   uint64
	Point    actor.Vec3
	Normal   actor.Vec3
	Distance float32
}

// Raycast finds the nearest body intersected by the ray (origin, dir)
// within maxDist, building each body's world OBB and running a 3-slab
// test against it. A zero-length direction or non-positive maxDist is
// a miss. Does not mutate state.
func (w *World) Raycast(origin, direction actor.Vec3, maxDist float32, bodies []*actor.Body) RaycastHit {
	if maxDist <= 0 {
		return RaycastHit{}
	}
	dir := normalizeOrZeroPkg(direction)
	if dir.Dot(dir) <= 1.0e-8 {
		return RaycastHit{}
	}

	closest := maxDist
	var out RaycastHit

	for _, body := range bodies {
		obb := actor.ComputeOBB(body, body.Position, body.Orientation)
		if t, normal, ok := actor.RaycastOBB(origin, dir, obb, closest); ok {
			closest = t
			out = RaycastHit{
				Hit:      true,
				BodyID:   body.ID,
				Distance: t,
				Point:    origin.Add(dir.Mul(t)),
				Normal:   normal,
			}
		}
	}

	return out
}
