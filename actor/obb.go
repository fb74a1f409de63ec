package actor

import "math"

// OBB is a world-space oriented bounding box: a center, three
// orthonormal axes, and per-axis half extents.
type OBB struct {
	Center      Vec3
	Axis        [3]Vec3
	HalfExtents Vec3
}

// ComputeOBB builds the world OBB for a body at an arbitrary pose,
// letting callers evaluate it at the pre-integration pose for CCD
// without mutating the body.
func ComputeOBB(b *Body, atPosition Vec3, atOrientation Quat) OBB {
	q := atOrientation.Normalized()

	scaledMin := Vec3{b.LocalBoundsMin[0] * b.Scale[0], b.LocalBoundsMin[1] * b.Scale[1], b.LocalBoundsMin[2] * b.Scale[2]}
	scaledMax := Vec3{b.LocalBoundsMax[0] * b.Scale[0], b.LocalBoundsMax[1] * b.Scale[1], b.LocalBoundsMax[2] * b.Scale[2]}

	localCenter := Vec3{
		0.5 * (scaledMin[0] + scaledMax[0]),
		0.5 * (scaledMin[1] + scaledMax[1]),
		0.5 * (scaledMin[2] + scaledMax[2]),
	}
	halfExtents := Vec3{
		0.5 * absf(scaledMax[0]-scaledMin[0]),
		0.5 * absf(scaledMax[1]-scaledMin[1]),
		0.5 * absf(scaledMax[2]-scaledMin[2]),
	}

	return OBB{
		Center: atPosition.Add(q.Rotate(localCenter)),
		Axis: [3]Vec3{
			normalizeOrZero(q.Rotate(Vec3{1, 0, 0})),
			normalizeOrZero(q.Rotate(Vec3{0, 1, 0})),
			normalizeOrZero(q.Rotate(Vec3{0, 0, 1})),
		},
		HalfExtents: halfExtents,
	}
}

// BoundingSphere is a world-space sphere used by the broadphase and CCD.
type BoundingSphere struct {
	Center Vec3
	Radius float32
}

// ComputeBoundingSphere wraps a body's OBB at an arbitrary pose with a
// sphere of radius half-diagonal + motionPadding.
func ComputeBoundingSphere(b *Body, atPosition Vec3, atOrientation Quat, motionPadding float32) BoundingSphere {
	obb := ComputeOBB(b, atPosition, atOrientation)
	return BoundingSphere{
		Center: obb.Center,
		Radius: obb.HalfExtents.Len() + maxf(motionPadding, 0),
	}
}

// Vertices returns the 8 corners of an OBB.
func (o OBB) Vertices() [8]Vec3 {
	var verts [8]Vec3
	idx := 0
	for _, x := range [2]float32{-1, 1} {
		for _, y := range [2]float32{-1, 1} {
			for _, z := range [2]float32{-1, 1} {
				verts[idx] = o.Center.
					Add(o.Axis[0].Mul(o.HalfExtents[0] * x)).
					Add(o.Axis[1].Mul(o.HalfExtents[1] * y)).
					Add(o.Axis[2].Mul(o.HalfExtents[2] * z))
				idx++
			}
		}
	}
	return verts
}

// ContainsPoint reports whether p lies within o, inflated by a small
// tolerance to absorb float roundoff at the boundary.
func (o OBB) ContainsPoint(p Vec3) bool {
	const eps = 1.0e-4
	d := p.Sub(o.Center)
	for i := 0; i < 3; i++ {
		dist := d.Dot(o.Axis[i])
		ext := o.HalfExtents[i]
		if dist > ext+eps || dist < -ext-eps {
			return false
		}
	}
	return true
}

// Support returns the extreme point of o along dir.
func (o OBB) Support(dir Vec3) Vec3 {
	p := o.Center
	for i := 0; i < 3; i++ {
		d := dir.Dot(o.Axis[i])
		sign := float32(1)
		if d < 0 {
			sign = -1
		}
		p = p.Add(o.Axis[i].Mul(o.HalfExtents[i] * sign))
	}
	return p
}

func normalizeOrZero(v Vec3) Vec3 {
	lenSq := v.Dot(v)
	if lenSq <= 1.0e-8 {
		return Vec3{}
	}
	return v.Mul(1 / sqrtf(lenSq))
}

// RaycastOBB runs a 3-slab intersection of a ray against o, returning
// the nearest non-negative hit distance (capped by maxDist) and the
// outward-facing slab normal. A ray starting inside o hits at distance
// 0 with the normal opposite to direction.
func RaycastOBB(origin, direction Vec3, o OBB, maxDist float32) (t float32, normal Vec3, hit bool) {
	rel := origin.Sub(o.Center)
	oLocal := Vec3{rel.Dot(o.Axis[0]), rel.Dot(o.Axis[1]), rel.Dot(o.Axis[2])}
	dLocal := Vec3{direction.Dot(o.Axis[0]), direction.Dot(o.Axis[1]), direction.Dot(o.Axis[2])}

	tMin := float32(0)
	tMax := maxDist
	hitAxis := -1
	hitSign := float32(1)

	for i := 0; i < 3; i++ {
		o_ := oLocal[i]
		d := dLocal[i]
		minB := -o.HalfExtents[i]
		maxB := o.HalfExtents[i]

		if absf(d) < 1.0e-7 {
			if o_ < minB || o_ > maxB {
				return 0, Vec3{}, false
			}
			continue
		}

		t1 := (minB - o_) / d
		t2 := (maxB - o_) / d
		sign1 := float32(-1)
		sign2 := float32(1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign1, sign2 = sign2, sign1
		}

		if t1 > tMin {
			tMin = t1
			hitAxis = i
			hitSign = sign1
		}
		tMax = minf(tMax, t2)
		if tMin > tMax {
			return 0, Vec3{}, false
		}
	}

	if tMin < 0 || tMin > maxDist {
		return 0, Vec3{}, false
	}

	var n Vec3
	if hitAxis >= 0 {
		n = o.Axis[hitAxis].Mul(hitSign)
	} else {
		n = direction.Mul(-1)
	}
	return tMin, normalizeOrZero(n), true
}

func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
